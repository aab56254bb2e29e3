package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/metrics"
	"github.com/sells-group/deal-desk/internal/model"
)

// Result is the outcome of an LLM-backed step. A degraded result carries
// fallback content and the reason the model output could not be used.
type Result[T any] struct {
	Value  T
	Status model.LLMStatus
}

// Ok wraps a value produced by the model.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: model.LLMStatus{Status: model.LLMStatusOK}}
}

// Degraded wraps fallback content with the failure reason.
func Degraded[T any](fallback T, reason string) Result[T] {
	return Result[T]{Value: fallback, Status: model.LLMStatus{Status: model.LLMStatusDegraded, Reason: reason}}
}

// IsDegraded reports whether the result holds fallback content.
func (r Result[T]) IsDegraded() bool {
	return r.Status.Status == model.LLMStatusDegraded
}

// Invoke runs req through gen, validates the object against schema when one
// is given, and converts it with decode. Any failure along the way yields a
// degraded result built from fallback.
func Invoke[T any](ctx context.Context, gen Generator, req Request, schema map[string]any, decode func(map[string]any) (T, error), fallback func() T) Result[T] {
	start := time.Now()
	res := invoke(ctx, gen, req, schema, decode, fallback)
	metrics.LLMCallDuration.WithLabelValues(req.Purpose).Observe(time.Since(start).Seconds())
	metrics.LLMCallsTotal.WithLabelValues(req.Purpose, res.Status.Status).Inc()
	return res
}

func invoke[T any](ctx context.Context, gen Generator, req Request, schema map[string]any, decode func(map[string]any) (T, error), fallback func() T) Result[T] {
	degrade := func(err error) Result[T] {
		zap.L().Warn("llm output degraded",
			zap.String("purpose", req.Purpose),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.Error(err),
		)
		return Degraded(fallback(), err.Error())
	}

	if gen == nil {
		return degrade(apperr.Capability("llm: no generator configured"))
	}

	obj, err := gen.GenerateJSON(ctx, req)
	if err != nil {
		return degrade(err)
	}
	if schema != nil {
		if err := Validate(schema, obj); err != nil {
			return degrade(err)
		}
	}
	v, err := decode(obj)
	if err != nil {
		return degrade(apperr.Data(err, "llm: decode "+req.Purpose))
	}
	return Ok(v)
}

// Validate checks doc against a JSON schema and reports every violation.
func Validate(schema map[string]any, doc map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperr.Data(err, "llm: schema validation")
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return apperr.Dataf("llm: output does not match schema: %s", strings.Join(problems, "; "))
}

// Decode re-encodes obj into T through JSON.
func Decode[T any](obj map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(obj)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
