// Package scoring turns extracted constraints and catalog matches into a
// bounded deal score and a list of follow-up questions.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/sells-group/deal-desk/internal/model"
)

var (
	digitRe    = regexp.MustCompile(`\b\d+\b`)
	rateRe     = regexp.MustCompile(`\b\d+\b.*/(day|week|month)\b`)
	currencyRe = regexp.MustCompile(`[$₹]|\b(?:rs|inr|usd|eur|gbp)\b`)
)

// Score thresholds for bands.
const (
	moderateFloor = 35
	highFloor     = 70
)

// BandFor buckets a 0-100 score.
func BandFor(score int) model.Band {
	switch {
	case score < moderateFloor:
		return model.BandLow
	case score < highFloor:
		return model.BandModerate
	default:
		return model.BandHigh
	}
}

// Deal computes the additive opportunity score for a request.
func Deal(cs model.ConstraintSet, matches []model.ProductMatch) model.DealScore {
	score := 0
	reasons := []string{}

	if len(matches) > 0 {
		top := matches[0].Score
		score += min(int(top*10), 30)
		reasons = append(reasons, fmt.Sprintf("Top product match score=%.3f", top))
	}

	tl := strings.ToLower(cs.Timeline.Value)
	switch {
	case strings.Contains(tl, "immediate") || strings.Contains(tl, "within"):
		score += 15
		reasons = append(reasons, "Urgent timeline")
	case tl != "":
		score += 8
		reasons = append(reasons, "Timeline provided")
	}

	qty := strings.ToLower(cs.Quantity.Value)
	switch {
	case strings.Contains(qty, "bulk") || strings.Contains(qty, "high volume"):
		score += 15
		reasons = append(reasons, "Bulk quantity intent")
	case digitRe.MatchString(qty):
		score += 10
		reasons = append(reasons, "Quantity provided")
	}

	th := strings.ToLower(cs.Throughput.Value)
	if strings.Contains(th, "high throughput") || rateRe.MatchString(th) {
		score += 12
		reasons = append(reasons, "High throughput")
	}

	bd := strings.ToLower(cs.Budget.Value)
	switch {
	case strings.Contains(bd, "budget-sensitive"):
		score -= 5
		reasons = append(reasons, "Price sensitivity risk")
	case strings.Contains(bd, "premium") || currencyRe.MatchString(bd):
		score += 5
		reasons = append(reasons, "Budget signal present")
	}

	score = max(0, min(score, 100))
	return model.DealScore{Score: score, Band: BandFor(score), Reasons: reasons}
}

// Confidence is the overall extraction confidence as a percentage in [5, 98].
func Confidence(explicit, implicit int, cs model.ConstraintSet) int {
	c := min(float64(explicit)*0.15, 0.45)
	c += min(float64(implicit)*0.10, 0.25)
	c += min(cs.AverageConfidence()*0.30, 0.30)
	c = max(0.05, min(c, 0.98))
	return int(math.Round(c * 100))
}
