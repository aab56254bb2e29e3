package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/desk"
	"github.com/sells-group/deal-desk/internal/llm"
	"github.com/sells-group/deal-desk/pkg/anthropic"
)

// newGenerator returns the configured JSON generator, or nil when no API key
// is set. A nil generator makes every LLM-backed field fall back.
func newGenerator(c *config.Config) llm.Generator {
	if c.Anthropic.Key == "" {
		zap.L().Warn("no anthropic key configured, LLM-backed fields will use fallbacks")
		return nil
	}
	return llm.NewAnthropicGenerator(anthropic.NewClient(c.Anthropic.Key), c.LLM)
}

// initDesk validates the config for mode and loads the reference datasets.
func initDesk(ctx context.Context, c *config.Config, mode string) (*desk.Desk, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}
	return desk.Load(ctx, c, newGenerator(c))
}
