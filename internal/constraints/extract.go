// Package constraints pulls timeline, quantity, budget, throughput, and
// compliance signals out of free-text sales requests using fixed rules.
package constraints

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/deal-desk/internal/model"
)

// Fixed labels produced by keyword rules.
const (
	TimelineImmediate  = "Immediate (0–7 days)"
	QuantityBulk       = "High volume (bulk)"
	BudgetSensitive    = "Budget-sensitive"
	BudgetPremium      = "Premium-ready"
	BudgetAcademic     = "Likely budget-sensitive (grant/academic)"
	ThroughputHigh     = "High throughput"
	ThroughputLow      = "Low throughput"
	ComplianceAssumed  = "Research Use Only (assumed)"
	complianceFallback = 0.35
)

var (
	relativeTimeRe = regexp.MustCompile(`\b(in|within)\s+(\d+)\s*(day|days|week|weeks|month|months)\b`)
	quantityRe     = regexp.MustCompile(`\b(\d+)\s*(kits|kit|units|unit|boxes|box|reactions|rxns|samples)\b`)
	currencyRe     = regexp.MustCompile(`(₹|\$|\b(?:rs\.?|inr|usd|eur|gbp))\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
	throughputRe   = regexp.MustCompile(`\b(\d+)\s*(samples|runs|tests|rxns|reactions)\s*/\s*(day|week|month)\b`)

	urgencyWords     = []string{"asap", "urgent", "immediately", "right away", "today", "tomorrow"}
	namedPeriods     = []string{"this week", "this month", "this quarter", "next week", "next month", "next quarter"}
	bulkWords        = []string{"bulk", "high volume", "large volume", "scale up", "scaling up"}
	budgetWords      = []string{"low cost", "cheaper", "affordable", "budget", "tight budget", "limited budget", "cost sensitive"}
	premiumWords     = []string{"premium", "best quality", "top tier", "no budget issue"}
	academicWords    = []string{"grant", "academic", "university", "student"}
	highVolumeWords  = []string{"high throughput", "automation", "robot", "screening"}
	lowVolumeWords   = []string{"small lab", "few samples", "pilot", "prototype"}
	complianceLabels = []struct {
		re    *regexp.Regexp
		label string
	}{
		{regexp.MustCompile(`\bgmp\b`), "GMP"},
		{regexp.MustCompile(`\biso\b`), "ISO"},
		{regexp.MustCompile(`\bce\b`), "CE"},
		{regexp.MustCompile(`\bfda\b`), "FDA"},
		{regexp.MustCompile(`\bivd\b`), "IVD"},
		{regexp.MustCompile(`\bclinical\b`), "Clinical"},
		{regexp.MustCompile(`\bvalidated\b`), "Validated workflow"},
		{regexp.MustCompile(`\bruo\b`), "Research Use Only (RUO)"},
	}
)

// Extract runs every field rule against text. It never fails; fields with no
// signal are empty with confidence 0, except compliance which falls back to
// an assumed research-use default.
func Extract(text string) model.ConstraintSet {
	t := strings.ToLower(text)
	return model.ConstraintSet{
		Timeline:   Timeline(t),
		Quantity:   Quantity(t),
		Budget:     Budget(t),
		Throughput: Throughput(t),
		Compliance: Compliance(t),
	}
}

// Timeline detects urgency words, relative deadlines, then named periods.
func Timeline(text string) model.Constraint {
	t := strings.ToLower(text)

	if containsAny(t, urgencyWords) {
		return model.Constraint{Value: TimelineImmediate, Confidence: 0.85}
	}

	if m := relativeTimeRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[2])
		switch unit := m[3]; {
		case strings.Contains(unit, "day"):
			return model.Constraint{Value: fmt.Sprintf("Within %d days", n), Confidence: 0.8}
		case strings.Contains(unit, "week"):
			return model.Constraint{Value: fmt.Sprintf("Within %d weeks", n), Confidence: 0.8}
		default:
			return model.Constraint{Value: fmt.Sprintf("Within %d months", n), Confidence: 0.75}
		}
	}

	for _, p := range namedPeriods {
		if strings.Contains(t, p) {
			// Casers carry state and must not be shared across goroutines.
			return model.Constraint{Value: cases.Title(language.English).String(p), Confidence: 0.7}
		}
	}

	return model.Constraint{}
}

// Quantity detects counted units, then bulk language.
func Quantity(text string) model.Constraint {
	t := strings.ToLower(text)

	if m := quantityRe.FindStringSubmatch(t); m != nil {
		return model.Constraint{Value: m[1] + " " + m[2], Confidence: 0.85}
	}
	if containsAny(t, bulkWords) {
		return model.Constraint{Value: QuantityBulk, Confidence: 0.65}
	}
	return model.Constraint{}
}

// Budget detects a currency amount, then sensitivity, premium, and
// academic signals in that order.
func Budget(text string) model.Constraint {
	t := strings.ToLower(text)

	if m := currencyRe.FindStringSubmatch(t); m != nil {
		return model.Constraint{Value: m[1] + " " + m[2], Confidence: 0.85}
	}
	switch {
	case containsAny(t, budgetWords):
		return model.Constraint{Value: BudgetSensitive, Confidence: 0.7}
	case containsAny(t, premiumWords):
		return model.Constraint{Value: BudgetPremium, Confidence: 0.65}
	case containsAny(t, academicWords):
		return model.Constraint{Value: BudgetAcademic, Confidence: 0.55}
	}
	return model.Constraint{}
}

// Throughput detects a numeric rate, then high and low volume language.
func Throughput(text string) model.Constraint {
	t := strings.ToLower(text)

	if m := throughputRe.FindStringSubmatch(t); m != nil {
		return model.Constraint{Value: fmt.Sprintf("%s %s/%s", m[1], m[2], m[3]), Confidence: 0.85}
	}
	switch {
	case containsAny(t, highVolumeWords):
		return model.Constraint{Value: ThroughputHigh, Confidence: 0.7}
	case containsAny(t, lowVolumeWords):
		return model.Constraint{Value: ThroughputLow, Confidence: 0.6}
	}
	return model.Constraint{}
}

// Compliance returns the first regulatory keyword found. It is never empty.
func Compliance(text string) model.Constraint {
	t := strings.ToLower(text)
	for _, c := range complianceLabels {
		if c.re.MatchString(t) {
			return model.Constraint{Value: c.label, Confidence: 0.8}
		}
	}
	return model.Constraint{Value: ComplianceAssumed, Confidence: complianceFallback}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
