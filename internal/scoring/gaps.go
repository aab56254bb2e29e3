package scoring

import (
	"strings"

	"github.com/sells-group/deal-desk/internal/model"
)

// Gaps lists follow-up questions for missing or assumed constraints, then
// product-specific ambiguities raised by the catalog matches.
func Gaps(cs model.ConstraintSet, matches []model.ProductMatch) []model.GapQuestion {
	qs := []model.GapQuestion{}
	add := func(field, question string, p model.Priority) {
		qs = append(qs, model.GapQuestion{MissingField: field, Question: question, Priority: p})
	}

	if cs.Timeline.Value == "" {
		add("timeline", "When do you need this delivered?", model.PriorityHigh)
	}
	if cs.Quantity.Value == "" {
		add("quantity", "How many kits/units or how many samples will you process?", model.PriorityHigh)
	}
	if strings.Contains(strings.ToLower(cs.Compliance.Value), "assumed") {
		add("compliance", "Is this for RUO only, or do you need GMP/clinical-grade compliance?", model.PriorityMedium)
	}
	if cs.Budget.Value == "" {
		add("budget", "Do you have a target budget range or preferred tier (standard vs premium)?", model.PriorityMedium)
	}

	if len(matches) == 0 {
		return qs
	}
	if strings.Contains(strings.ToLower(matches[0].ProductName), "plasmid") {
		add("workflow", "What plasmid size and expected yield range do you need?", model.PriorityMedium)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.ProductName), "nanodrop") {
			add("instrument", "Do you need a NanoDrop specifically or any UV-Vis microvolume spectrophotometer works?", model.PriorityLow)
			break
		}
	}
	return qs
}
