// Package llm turns prompts into JSON objects through a language model and
// wraps every call in a result that is either Ok or Degraded.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/resilience"
	"github.com/sells-group/deal-desk/pkg/anthropic"
)

// Request is one structured-JSON generation call.
type Request struct {
	// Purpose labels the call in logs and metrics.
	Purpose string
	System  string
	Prompt  string
	// SchemaHint is appended to the system instruction when set.
	SchemaHint string
}

// Generator produces a JSON object from a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, req Request) (map[string]any, error)
}

// AnthropicGenerator implements Generator with the Anthropic Messages API.
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
	limiter     *rate.Limiter
	retry       resilience.RetryConfig
	breaker     *resilience.CircuitBreaker
}

// NewAnthropicGenerator creates a rate-limited, retrying generator.
func NewAnthropicGenerator(client anthropic.Client, cfg config.LLMConfig) *AnthropicGenerator {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	retry.ShouldRetry = resilience.Classifier(anthropic.StatusCode)
	retry.OnRetry = resilience.RetryLogger("llm.generate_json")

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &AnthropicGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		limiter:     rate.NewLimiter(limit, 1),
		retry:       retry,
		breaker:     resilience.NewCircuitBreaker(5, 30*time.Second),
	}
}

// GenerateJSON sends the request and parses the reply as a JSON object.
func (g *AnthropicGenerator) GenerateJSON(ctx context.Context, req Request) (map[string]any, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	system := req.System
	if req.SchemaHint != "" {
		system = strings.TrimSpace(system) + "\n\nReturn JSON matching this schema:\n" + req.SchemaHint
	}
	temp := g.temperature
	msg := anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		System:      []anthropic.SystemBlock{{Text: system}},
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
	}

	resp, err := resilience.Execute(ctx, g.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "llm: rate limit wait")
			}
			return g.client.CreateMessage(ctx, msg)
		})
	})
	if err != nil {
		return nil, apperr.Collaborator(err, "llm: "+req.Purpose)
	}

	resp.Usage.LogCost(g.model, req.Purpose)
	zap.L().Debug("llm response received",
		zap.String("purpose", req.Purpose),
		zap.String("stop_reason", resp.StopReason),
	)

	return ParseObject(resp.Text())
}
