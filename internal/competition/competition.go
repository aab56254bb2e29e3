// Package competition rates how contested requested products are, based on
// a competitor comparison dataset.
package competition

import (
	"context"
	"math"
	"os"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/source"
)

const (
	// NeutralScore is used for products with no competitor rows.
	NeutralScore = 0.5
	// Unknown labels the competitor and position of unmatched products.
	Unknown = "Unknown"

	summaryLimit = 240
)

// positionWeights maps a comparative position to competitive pressure.
var positionWeights = map[model.ComparativePosition]float64{
	model.PositionCompetitorAdvantage: 0.85,
	model.PositionNeutral:             0.55,
	model.PositionOurAdvantage:        0.25,
}

const unmappedWeight = 0.55

// Weight returns the competitive pressure of a comparative position.
func Weight(p model.ComparativePosition) float64 {
	if w, ok := positionWeights[model.ComparativePosition(strings.TrimSpace(string(p)))]; ok {
		return w
	}
	return unmappedWeight
}

var requiredColumns = []string{"thermo_product", "comparative_position"}

// Load reads competitor rows from a CSV file.
func Load(ctx context.Context, path string) ([]model.CompetitorRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Data(err, "competition: open "+path)
	}
	defer f.Close() //nolint:errcheck

	t, err := source.ReadCSVTable(ctx, f)
	if err != nil {
		return nil, apperr.Data(err, "competition: read "+path)
	}
	return Rows(t)
}

// Rows converts a competitor table into rows. The thermo_product and
// comparative_position columns are required.
func Rows(t *source.Table) ([]model.CompetitorRow, error) {
	for _, c := range requiredColumns {
		if t.Column(c) < 0 {
			return nil, apperr.Dataf("competition: %s column not found (columns: %s)", c, strings.Join(t.Header, ", "))
		}
	}

	ours := t.Column("thermo_product")
	position := t.Column("comparative_position")
	company := t.Column("competitor_company")
	theirs := t.Column("competitor_product")
	summary := t.Column("net_assessment_summary")

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]model.CompetitorRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, model.CompetitorRow{
			ThermoProduct:        cell(r, ours),
			ComparativePosition:  model.ComparativePosition(cell(r, position)),
			CompetitorCompany:    cell(r, company),
			CompetitorProduct:    cell(r, theirs),
			NetAssessmentSummary: cell(r, summary),
		})
	}
	return rows, nil
}

// Score assesses each requested product against the competitor rows. The
// overall score is the mean of the per-product scores and coverage is the
// share of products with at least one matching row.
func Score(products []string, rows []model.CompetitorRow) model.MarketAssessment {
	out := model.MarketAssessment{
		OverallMarketCompetition: NeutralScore,
		ByProduct:                make([]model.ProductCompetition, 0, len(products)),
	}
	if len(products) == 0 {
		return out
	}

	var sum float64
	covered := 0
	for _, p := range products {
		pc := assess(p, rows)
		if pc.MatchedRows > 0 {
			covered++
		}
		sum += pc.CompetitionScore
		out.ByProduct = append(out.ByProduct, pc)
	}

	out.OverallMarketCompetition = round2(sum / float64(len(products)))
	out.Coverage = round2(float64(covered) / float64(len(products)))
	return out
}

// assess picks the most threatening matching row as representative; ties
// keep the earlier row.
func assess(product string, rows []model.CompetitorRow) model.ProductCompetition {
	want := strings.ToLower(product)

	var (
		top     *model.CompetitorRow
		topW    float64
		matched int
	)
	for i := range rows {
		r := &rows[i]
		if !strings.Contains(strings.ToLower(r.ThermoProduct), want) &&
			!strings.Contains(strings.ToLower(r.CompetitorProduct), want) {
			continue
		}
		matched++
		if w := Weight(r.ComparativePosition); top == nil || w > topW {
			top, topW = r, w
		}
	}

	if top == nil {
		return model.ProductCompetition{
			Product:          product,
			CompetitionScore: NeutralScore,
			TopCompetitor:    Unknown,
			Position:         Unknown,
		}
	}

	company := top.CompetitorCompany
	if company == "" {
		company = Unknown
	}
	position := string(top.ComparativePosition)
	if position == "" {
		position = Unknown
	}
	return model.ProductCompetition{
		Product:          product,
		CompetitionScore: round2(topW),
		MatchedRows:      matched,
		TopCompetitor:    company,
		Position:         position,
		Summary:          truncate(top.NetAssessmentSummary, summaryLimit),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
