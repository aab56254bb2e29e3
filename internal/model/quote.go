package model

import "time"

// QuoteStage is a state of the quote pipeline.
type QuoteStage string

const (
	StageNew              QuoteStage = "new"
	StagePriced           QuoteStage = "priced"
	StageMarketAssessed   QuoteStage = "market_assessed"
	StageAdvisoryAttached QuoteStage = "advisory_attached"
	StageDone             QuoteStage = "done"
)

// PricedItem is one requested product with its estimated unit price.
type PricedItem struct {
	Product   string  `json:"product"`
	UnitPrice float64 `json:"unit_price"`
}

// ProductCompetition is the competitor assessment for one requested product.
type ProductCompetition struct {
	Product          string  `json:"product"`
	CompetitionScore float64 `json:"competition_score"`
	MatchedRows      int     `json:"matched_rows"`
	TopCompetitor    string  `json:"top_competitor"`
	Position         string  `json:"position"`
	Summary          string  `json:"summary,omitempty"`
}

// MarketDisplay holds the 0-100 display numbers and labels for a market assessment.
type MarketDisplay struct {
	CompetitionPct   int    `json:"competition_pct"`
	ConfidencePct    int    `json:"confidence_pct"`
	WinRatePct       int    `json:"win_rate_pct"`
	CompetitionLabel string `json:"competition_label"`
	ConfidenceLabel  string `json:"confidence_label"`
	SourceNote       string `json:"source_note"`
}

// MarketAssessment is the competition scorer's output plus display numbers.
type MarketAssessment struct {
	OverallMarketCompetition float64              `json:"overall_market_competition"`
	Coverage                 float64              `json:"coverage"`
	ByProduct                []ProductCompetition `json:"by_product"`
	UI                       *MarketDisplay       `json:"ui,omitempty"`
}

// DiscountAdvice is the advisor's discount recommendation.
type DiscountAdvice struct {
	ShouldDiscount bool   `json:"should_discount"`
	DiscountRange  string `json:"discount_range"`
	Reason         string `json:"reason"`
}

// Strategy is an alternative commercial strategy and its expected impact.
type Strategy struct {
	Name   string `json:"name"`
	Impact string `json:"impact"`
}

// Insights is the sales advisory attached to a deal.
type Insights struct {
	AdvisorActions        []string       `json:"advisor_actions"`
	DiscountAdvice        DiscountAdvice `json:"discount_advice"`
	AlternativeStrategies []Strategy     `json:"alternative_strategies"`
	LLM                   LLMStatus      `json:"llm"`
}

// StageRecord records one completed quote pipeline stage.
type StageRecord struct {
	Stage      QuoteStage `json:"stage"`
	DurationMS int64      `json:"duration_ms"`
}

// DealState accumulates quote pipeline output. Each stage only fills its
// own fields; nothing set by an earlier stage is cleared or replaced.
type DealState struct {
	DealID      string   `json:"deal_id"`
	CompanyName string   `json:"company_name"`
	Products    []string `json:"products"`

	PricedItems []PricedItem `json:"priced_items,omitempty"`
	TotalPrice  *float64     `json:"total_price,omitempty"`

	Market                   *MarketAssessment `json:"market,omitempty"`
	RecommendationConfidence *float64          `json:"recommendation_confidence,omitempty"`

	Insights *Insights `json:"insights,omitempty"`

	Stage     QuoteStage    `json:"stage"`
	Stages    []StageRecord `json:"stages"`
	Revision  int           `json:"revision"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// QuoteRequest is the input to quote generation or repricing.
type QuoteRequest struct {
	DealID      string   `json:"deal_id"`
	CompanyName string   `json:"company_name"`
	Products    []string `json:"products"`
}
