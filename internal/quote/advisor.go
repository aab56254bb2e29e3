package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/deal-desk/internal/llm"
	"github.com/sells-group/deal-desk/internal/model"
)

const (
	advisorPurpose = "quote_advisor"
	maxActions     = 5
)

const advisorSystem = `You are an enterprise AI Sales Advisor for B2B scientific products.
Return STRICT JSON only.
Rules:
- If competition >= 75%: suggest bundling, training/service, proof points; allow small discount only with guardrails.
- If competition <= 35%: avoid discount; focus differentiation and urgency.
- Keep actions short and practical.`

const advisorSchemaHint = `{
  "advisor_actions": ["Action 1", "Action 2", "Action 3"],
  "discount_advice": {"should_discount": false, "discount_range": "e.g. 0% or 3-7%", "reason": "short reason"},
  "alternative_strategies": [
    {"name": "Strategy name", "impact": "e.g. -3,717.75 or +12,000"},
    {"name": "Strategy name", "impact": "e.g. 0% discount, add service"}
  ]
}`

// advisorSchema checks field types only; missing fields are filled with
// defaults after decoding.
var advisorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"advisor_actions": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"discount_advice": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"should_discount": map[string]any{"type": "boolean"},
				"discount_range":  map[string]any{"type": "string"},
				"reason":          map[string]any{"type": "string"},
			},
		},
		"alternative_strategies": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":   map[string]any{"type": "string"},
					"impact": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	defaultActions = []string{
		"Bundle with specialized onsite training to reduce switching risk.",
		"Position total cost of ownership + uptime + service SLAs.",
		"Offer a time-bound commercial incentive only if competition is high.",
	}
	fallbackActions = []string{
		"Negotiate a 2-year volume commitment to lock in value.",
		"Bundle with specialized onsite training to reduce switching risk.",
		"Offer a time-bound incentive only if competition is high.",
	}
	defaultStrategies = []model.Strategy{
		{Name: "Aggressive Growth", Impact: "-3,717.75"},
		{Name: "Bundle Service Plan", Impact: "+Higher close probability"},
	}
)

func defaultDiscount() model.DiscountAdvice {
	return model.DiscountAdvice{
		ShouldDiscount: false,
		DiscountRange:  "0%",
		Reason:         "Default: protect margin; discount only if competitive pressure is high.",
	}
}

// FallbackInsights is the canned advisory used when the model is unavailable.
func FallbackInsights() model.Insights {
	return model.Insights{
		AdvisorActions: append([]string(nil), fallbackActions...),
		DiscountAdvice: model.DiscountAdvice{
			ShouldDiscount: false,
			DiscountRange:  "0%",
			Reason:         "LLM unavailable",
		},
		AlternativeStrategies: append([]model.Strategy(nil), defaultStrategies...),
	}
}

// advise asks the model for sales advice on the priced and assessed deal.
func advise(ctx context.Context, gen llm.Generator, state *model.DealState) model.Insights {
	req := llm.Request{
		Purpose:    advisorPurpose,
		System:     advisorSystem,
		Prompt:     advisorPrompt(state),
		SchemaHint: advisorSchemaHint,
	}
	res := llm.Invoke(ctx, gen, req, advisorSchema, decodeInsights, FallbackInsights)
	out := res.Value
	out.LLM = res.Status
	if res.IsDegraded() {
		out.DiscountAdvice.Reason = "LLM unavailable: " + res.Status.Reason
	}
	return out
}

func advisorPrompt(state *model.DealState) string {
	var competitionPct, confidencePct int
	var competitors []string
	if state.Market != nil {
		if state.Market.UI != nil {
			competitionPct = state.Market.UI.CompetitionPct
			confidencePct = state.Market.UI.ConfidencePct
		}
		for _, pc := range state.Market.ByProduct {
			competitors = append(competitors, fmt.Sprintf("%s: %s vs %s", pc.Product, pc.Position, pc.TopCompetitor))
		}
	}
	var total float64
	if state.TotalPrice != nil {
		total = *state.TotalPrice
	}
	products, _ := json.Marshal(state.Products)
	summary, _ := json.Marshal(competitors)

	var sb strings.Builder
	sb.WriteString("Inputs:\n")
	fmt.Fprintf(&sb, "- Company: %s\n", state.CompanyName)
	fmt.Fprintf(&sb, "- Deal ID: %s\n", state.DealID)
	fmt.Fprintf(&sb, "- Products: %s\n", products)
	fmt.Fprintf(&sb, "- Estimated total value: %.2f\n", total)
	fmt.Fprintf(&sb, "- Market competition (dataset-based): %d%%\n", competitionPct)
	fmt.Fprintf(&sb, "- Confidence: %d%%\n", confidencePct)
	fmt.Fprintf(&sb, "- Competitor summary: %s\n", summary)
	return sb.String()
}

type advisorPayload struct {
	AdvisorActions        []string              `json:"advisor_actions"`
	DiscountAdvice        *model.DiscountAdvice `json:"discount_advice"`
	AlternativeStrategies []model.Strategy      `json:"alternative_strategies"`
}

// decodeInsights fills any missing section with its default and caps the
// action list.
func decodeInsights(obj map[string]any) (model.Insights, error) {
	p, err := llm.Decode[advisorPayload](obj)
	if err != nil {
		return model.Insights{}, err
	}

	var actions []string
	for _, a := range p.AdvisorActions {
		if a = strings.TrimSpace(a); a != "" {
			actions = append(actions, a)
		}
	}
	if len(actions) == 0 {
		actions = append([]string(nil), defaultActions...)
	}
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}

	discount := defaultDiscount()
	if p.DiscountAdvice != nil {
		discount = *p.DiscountAdvice
	}

	strategies := p.AlternativeStrategies
	if _, ok := obj["alternative_strategies"]; !ok || strategies == nil {
		strategies = append([]model.Strategy(nil), defaultStrategies...)
	}

	return model.Insights{
		AdvisorActions:        actions,
		DiscountAdvice:        discount,
		AlternativeStrategies: strategies,
	}, nil
}
