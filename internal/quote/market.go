package quote

import (
	"math"

	"github.com/sells-group/deal-desk/internal/model"
)

const sourceNote = "Computed from the competitor dataset (comparative_position + product matching)."

// Confidence derives recommendation confidence from competitor coverage.
func Confidence(coverage float64) float64 {
	return round2(math.Min(0.5+0.5*coverage, 0.95))
}

// WinRate estimates the win probability as a percentage in [5, 95].
func WinRate(confidence, competition float64) int {
	w := int(math.Round((0.55*confidence + 0.45*(1-competition)) * 100))
	return max(5, min(95, w))
}

// CompetitionLabel buckets a 0-100 competition percentage.
func CompetitionLabel(pct int) string {
	switch {
	case pct >= 75:
		return "HIGHLY COMPETITIVE"
	case pct >= 45:
		return "MODERATE"
	default:
		return "LOW COMPETITION"
	}
}

// ConfidenceLabel buckets a 0-100 confidence percentage.
func ConfidenceLabel(pct int) string {
	switch {
	case pct >= 85:
		return "HIGH"
	case pct >= 60:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// Display computes the display numbers for an assessment.
func Display(m model.MarketAssessment, confidence float64) *model.MarketDisplay {
	competitionPct := int(math.Round(m.OverallMarketCompetition * 100))
	confidencePct := int(math.Round(confidence * 100))
	return &model.MarketDisplay{
		CompetitionPct:   competitionPct,
		ConfidencePct:    confidencePct,
		WinRatePct:       WinRate(confidence, m.OverallMarketCompetition),
		CompetitionLabel: CompetitionLabel(competitionPct),
		ConfidenceLabel:  ConfidenceLabel(confidencePct),
		SourceNote:       sourceNote,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
