// Package requirements turns a free-text sales request into a requirement
// report by combining rule-based extraction, catalog and history retrieval,
// an LLM structuring pass, deal scoring and gap analysis.
package requirements

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/catalog"
	"github.com/sells-group/deal-desk/internal/constraints"
	"github.com/sells-group/deal-desk/internal/history"
	"github.com/sells-group/deal-desk/internal/llm"
	"github.com/sells-group/deal-desk/internal/metrics"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/scoring"
)

const (
	summaryLen      = 160
	excerptLen      = 800
	historyCap      = 10
	promptDealLimit = 5
)

// Options tunes retrieval depth.
type Options struct {
	CatalogTopK int
	HistoryTopK int
}

// Input is one analysis request.
type Input struct {
	Text string
	// Structured holds optional form fields such as company_name.
	Structured map[string]any
	// Source labels where the text came from, for metrics.
	Source string
}

// Analyzer produces requirement reports. It is safe for concurrent use.
type Analyzer struct {
	catalog *catalog.Index
	history *history.Index
	gen     llm.Generator
	opts    Options
	newID   func() string
}

// New creates an Analyzer over loaded indexes. gen may be nil, in which case
// every report carries the keyword fallback for LLM-sourced fields.
func New(cat *catalog.Index, hist *history.Index, gen llm.Generator, opts Options) *Analyzer {
	if opts.CatalogTopK <= 0 {
		opts.CatalogTopK = 5
	}
	if opts.HistoryTopK <= 0 {
		opts.HistoryTopK = 5
	}
	return &Analyzer{catalog: cat, history: hist, gen: gen, opts: opts, newID: uuid.NewString}
}

// Analyze builds the report for in. Only empty text is an error; a failing
// LLM degrades the LLM-sourced fields instead.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*model.RequirementReport, error) {
	text := strings.Join(strings.Fields(in.Text), " ")
	if text == "" {
		return nil, apperr.Validation("requirements: text is required")
	}
	source := in.Source
	if source == "" {
		source = "text"
	}
	metrics.AnalysesTotal.WithLabelValues(source).Inc()

	company := companyName(in.Structured)

	var (
		matches      []model.ProductMatch
		companyDeals []model.HistoricalDeal
		similarDeals []model.HistoricalDeal
	)
	if a.catalog != nil {
		matches = a.catalog.Search(text, a.opts.CatalogTopK)
	}
	if a.history != nil {
		if company != "" {
			companyDeals = a.history.ByCompany(company)
		}
		similarDeals = a.history.Search(text, a.opts.HistoryTopK)
	}
	if matches == nil {
		matches = []model.ProductMatch{}
	}

	cs := constraints.Extract(text)

	res := a.structure(ctx, text, in.Structured, cs, matches, companyDeals, similarDeals)
	out := res.Value

	merged := make(map[string]string, len(out.Requirements.Constraints)+len(model.ConstraintFields))
	for k, v := range out.Requirements.Constraints {
		merged[k] = v
	}
	for k, v := range cs.Values() {
		merged[k] = v
	}

	questions := out.GapsAndQuestions
	if len(questions) == 0 {
		questions = scoring.Gaps(cs, matches)
	}

	deal := scoring.Deal(cs, matches)

	// Keyword heuristics stand in for the model's lists when it is down but
	// do not raise the confidence figure.
	var explicitN, implicitN int
	if !res.IsDegraded() {
		explicitN, implicitN = len(out.Requirements.Explicit), len(out.Requirements.Implicit)
	}

	report := &model.RequirementReport{
		AnalysisID: a.newID(),
		Customer: model.Customer{
			CompanyName:       company,
			CompanySeenBefore: len(companyDeals) > 0,
		},
		RequestSummary: model.RequestSummary{
			OneLine:        out.RequestSummary,
			RawTextExcerpt: truncate(text, excerptLen),
		},
		Requirements: model.Requirements{
			Explicit:    out.Requirements.Explicit,
			Implicit:    out.Requirements.Implicit,
			Constraints: merged,
		},
		ProductMatches: matches,
		HistoryContext: model.HistoryContext{
			CompanyDeals:     capDeals(companyDeals, historyCap),
			MostSimilarDeals: capDeals(similarDeals, historyCap),
		},
		GapsAndQuestions: questions,
		DealIntelligence: model.DealIntelligence{
			DealScore:            deal.Score,
			DealBand:             deal.Band,
			Reasons:              deal.Reasons,
			ConfidencePct:        scoring.Confidence(explicitN, implicitN, cs),
			ConstraintConfidence: cs.Confidences(),
		},
		LLM: res.Status,
	}

	zap.L().Info("requirements: analysis complete",
		zap.String("analysis_id", report.AnalysisID),
		zap.String("source", source),
		zap.String("company", company),
		zap.Int("matches", len(matches)),
		zap.Int("deal_score", deal.Score),
		zap.String("llm_status", res.Status.Status),
	)
	return report, nil
}

// structured is the LLM-sourced part of a report.
type structured struct {
	RequestSummary string `json:"request_summary"`
	Requirements   struct {
		Explicit    []model.Evidence  `json:"explicit"`
		Implicit    []model.Evidence  `json:"implicit"`
		Constraints map[string]string `json:"constraints"`
	} `json:"requirements"`
	GapsAndQuestions []model.GapQuestion `json:"gaps_and_questions"`
}

func (a *Analyzer) structure(ctx context.Context, text string, hints map[string]any, cs model.ConstraintSet,
	matches []model.ProductMatch, companyDeals, similarDeals []model.HistoricalDeal,
) llm.Result[structured] {
	defaultSummary := truncate(text, summaryLen)

	fallback := func() structured {
		var s structured
		s.RequestSummary = defaultSummary
		s.Requirements.Explicit = heuristicExplicit(text)
		s.Requirements.Implicit = heuristicImplicit(text)
		return s
	}

	decode := func(obj map[string]any) (structured, error) {
		s, err := llm.Decode[structured](obj)
		if err != nil {
			return s, err
		}
		if strings.TrimSpace(s.RequestSummary) == "" {
			s.RequestSummary = defaultSummary
		}
		s.Requirements.Explicit = keepEvidence(s.Requirements.Explicit)
		s.Requirements.Implicit = keepEvidence(s.Requirements.Implicit)
		s.GapsAndQuestions = keepQuestions(s.GapsAndQuestions)
		return s, nil
	}

	if hints == nil {
		hints = map[string]any{}
	}
	payload, err := json.MarshalIndent(map[string]any{
		"sales_rep_text":                   text,
		"structured_fields":                hints,
		"detected_constraints_preliminary": cs.Values(),
		"top_catalog_matches":              matches,
		"company_purchase_history":         capDeals(companyDeals, promptDealLimit),
		"similar_historic_deals":           capDeals(similarDeals, promptDealLimit),
	}, "", "  ")
	if err != nil {
		return llm.Degraded(fallback(), apperr.Data(err, "requirements: encode prompt").Error())
	}

	req := llm.Request{
		Purpose:    "requirements",
		System:     systemPrompt,
		Prompt:     "INPUT:\n" + string(payload),
		SchemaHint: schemaHint,
	}
	return llm.Invoke(ctx, a.gen, req, schema, decode, fallback)
}

// keepEvidence drops items without a value. The result is never nil.
func keepEvidence(items []model.Evidence) []model.Evidence {
	out := make([]model.Evidence, 0, len(items))
	for _, e := range items {
		if strings.TrimSpace(e.Value) != "" {
			out = append(out, e)
		}
	}
	return out
}

// keepQuestions drops questions with no text and defaults a missing priority
// to medium.
func keepQuestions(items []model.GapQuestion) []model.GapQuestion {
	var out []model.GapQuestion
	for _, q := range items {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		if q.Priority == "" {
			q.Priority = model.PriorityMedium
		}
		out = append(out, q)
	}
	return out
}

func companyName(hints map[string]any) string {
	for _, key := range []string{"company_name", "company"} {
		if s, ok := hints[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func capDeals(deals []model.HistoricalDeal, n int) []model.HistoricalDeal {
	if deals == nil {
		return []model.HistoricalDeal{}
	}
	if len(deals) > n {
		return deals[:n]
	}
	return deals
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
