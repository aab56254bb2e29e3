// Package quote prices requested products, assesses the competitive market
// for them, and attaches sales advice, storing the result per deal.
package quote

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/competition"
	"github.com/sells-group/deal-desk/internal/llm"
	"github.com/sells-group/deal-desk/internal/metrics"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/pricing"
)

// Pipeline runs the price, market and advisory stages in order.
type Pipeline struct {
	prices      *pricing.Catalog
	competitors []model.CompetitorRow
	gen         llm.Generator
	store       *Store
}

// New creates a quote pipeline. gen may be nil, in which case every deal
// gets the fallback advisory.
func New(prices *pricing.Catalog, competitors []model.CompetitorRow, gen llm.Generator, store *Store) *Pipeline {
	if store == nil {
		store = NewStore()
	}
	return &Pipeline{prices: prices, competitors: competitors, gen: gen, store: store}
}

// Store returns the pipeline's deal store.
func (p *Pipeline) Store() *Store { return p.store }

// Generate runs every stage for req and stores the finished deal, replacing
// any earlier quote for the same deal id.
func (p *Pipeline) Generate(ctx context.Context, req model.QuoteRequest) (model.DealState, error) {
	state, err := newState(req)
	if err != nil {
		return model.DealState{}, err
	}

	log := zap.L().With(zap.String("deal_id", state.DealID), zap.String("company", state.CompanyName))
	log.Info("quote: starting pipeline", zap.Int("products", len(state.Products)))

	stages := []struct {
		name model.QuoteStage
		run  func(context.Context, *model.DealState)
	}{
		{model.StagePriced, p.price},
		{model.StageMarketAssessed, p.market},
		{model.StageAdvisoryAttached, p.advise},
	}
	for _, s := range stages {
		start := time.Now()
		s.run(ctx, &state)
		elapsed := time.Since(start)

		state.Stage = s.name
		state.Stages = append(state.Stages, model.StageRecord{Stage: s.name, DurationMS: elapsed.Milliseconds()})
		metrics.QuoteStageDuration.WithLabelValues(string(s.name)).Observe(elapsed.Seconds())
		log.Debug("quote: stage complete", zap.String("stage", string(s.name)), zap.Duration("elapsed", elapsed))
	}
	state.Stage = model.StageDone

	stored := p.store.Put(state)
	log.Info("quote: pipeline complete",
		zap.Float64("total_price", *stored.TotalPrice),
		zap.Int("revision", stored.Revision),
		zap.String("llm_status", stored.Insights.LLM.Status),
	)
	return stored, nil
}

// Insights returns the stored deal for dealID.
func (p *Pipeline) Insights(dealID string) (model.DealState, error) {
	return p.store.Get(strings.TrimSpace(dealID))
}

func (p *Pipeline) price(_ context.Context, state *model.DealState) {
	if p.prices == nil {
		items := make([]model.PricedItem, 0, len(state.Products))
		for _, prod := range state.Products {
			items = append(items, model.PricedItem{Product: prod})
		}
		total := 0.0
		state.PricedItems, state.TotalPrice = items, &total
		return
	}
	items, total := p.prices.Quote(state.Products)
	state.PricedItems, state.TotalPrice = items, &total
}

func (p *Pipeline) market(_ context.Context, state *model.DealState) {
	m := competition.Score(state.Products, p.competitors)
	conf := Confidence(m.Coverage)
	m.UI = Display(m, conf)
	state.Market, state.RecommendationConfidence = &m, &conf
}

func (p *Pipeline) advise(ctx context.Context, state *model.DealState) {
	insights := advise(ctx, p.gen, state)
	state.Insights = &insights
}

func newState(req model.QuoteRequest) (model.DealState, error) {
	dealID := strings.TrimSpace(req.DealID)
	company := strings.TrimSpace(req.CompanyName)
	var missing []string
	if dealID == "" {
		missing = append(missing, "deal_id")
	}
	if company == "" {
		missing = append(missing, "company_name")
	}
	if len(missing) > 0 {
		return model.DealState{}, apperr.Validation("quote: missing required fields: %s", strings.Join(missing, ", "))
	}

	products := make([]string, 0, len(req.Products))
	for _, prod := range req.Products {
		if prod = strings.TrimSpace(prod); prod != "" {
			products = append(products, prod)
		}
	}

	return model.DealState{
		DealID:      dealID,
		CompanyName: company,
		Products:    products,
		Stage:       model.StageNew,
	}, nil
}

// ParseProducts splits a comma or newline separated product list.
func ParseProducts(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
