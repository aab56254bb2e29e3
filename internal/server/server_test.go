package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-desk/internal/catalog"
	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/desk"
	"github.com/sells-group/deal-desk/internal/document"
	"github.com/sells-group/deal-desk/internal/history"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/pricing"
	"github.com/sells-group/deal-desk/internal/quote"
	"github.com/sells-group/deal-desk/internal/requirements"
	"github.com/sells-group/deal-desk/internal/source"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, in requirements.Input) (*model.RequirementReport, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequirementReport), args.Error(1)
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	cat := catalog.NewIndex(catalog.ParseText("1. PureLink Endotoxin-Free Plasmid Kit\nDescription: Plasmid purification.\nKeywords: plasmid, endotoxin\n"),
		catalog.Options{TFIDFEnabled: true})
	table := &source.Table{
		Header: []string{"company_name", "product_names_purchased", "profit"},
		Rows:   [][]string{{"Acme Bio", "PureLink Endotoxin-Free Plasmid Kit", "400"}},
	}
	hist := history.NewIndex(history.Deals(table))
	prices, err := pricing.Build(table)
	require.NoError(t, err)

	quotes := quote.New(prices, nil, nil, nil)
	return Deps{
		Analyzer:  requirements.New(cat, hist, nil, requirements.Options{}),
		Quotes:    quotes,
		Documents: document.NewExtractor(nil),
		Stats: func() desk.Stats {
			return desk.Stats{CatalogItems: cat.Len(), HistoryRows: hist.Len(), PricedProducts: prices.Len(), StoredDeals: quotes.Store().Len()}
		},
	}
}

func testHandler(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	return New(deps, config.ServerConfig{}, config.UploadConfig{MinTextChars: 10})
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, testHandler(t, testDeps(t)), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := testHandler(t, testDeps(t))
	do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dealdesk_http_request_duration_seconds")
}

func TestAnalyzeText(t *testing.T) {
	body := `{"text":"Need 10 kits of endotoxin-free plasmid prep ASAP","structured":{"company_name":"Acme Bio"}}`
	req := httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, testHandler(t, testDeps(t)), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rep := decode[model.RequirementReport](t, rec)
	assert.True(t, rep.Customer.CompanySeenBefore)
	assert.Equal(t, "Immediate (0–7 days)", rep.Requirements.Constraints["timeline"])
	assert.Equal(t, model.LLMStatusDegraded, rep.LLM.Status)
	assert.NotEmpty(t, rep.ProductMatches)
	require.Len(t, rep.HistoryContext.CompanyDeals, 1)
	deal := rep.HistoryContext.CompanyDeals[0]
	assert.Equal(t, "Acme Bio", deal.CompanyName)
	assert.Equal(t, 400.0, deal.Profit)
}

func TestAnalyzeText_Validation(t *testing.T) {
	h := testHandler(t, testDeps(t))
	for _, body := range []string{`{"text":"   "}`, `not json`} {
		rec := do(t, h, httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		e := decode[errorBody](t, rec)
		assert.Equal(t, "validation", e.Kind)
		assert.Equal(t, http.StatusBadRequest, e.Code)
	}
}

func TestAnalyzeText_UnexpectedError(t *testing.T) {
	deps := testDeps(t)
	a := &mockAnalyzer{}
	a.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	deps.Analyzer = a

	rec := do(t, testHandler(t, deps), httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(`{"text":"hello world"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decode[errorBody](t, rec)
	assert.Equal(t, "unexpected", e.Kind)
	assert.Equal(t, "boom", e.Message)
	a.AssertExpectations(t)
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyzeFile(t *testing.T) {
	rec := do(t, testHandler(t, testDeps(t)), multipartUpload(t, "rfq.txt", "We need endotoxin-free plasmid kits within 3 weeks."))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rep := decode[model.RequirementReport](t, rec)
	assert.Equal(t, "Within 3 weeks", rep.Requirements.Constraints["timeline"])
}

func TestAnalyzeFile_Errors(t *testing.T) {
	h := testHandler(t, testDeps(t))

	rec := do(t, h, multipartUpload(t, "rfq.txt", "too short"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Message, "could not extract readable text")

	rec = do(t, h, multipartUpload(t, "deck.pptx", "slides with plenty of text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Message, "unsupported file type")

	rec = do(t, h, httptest.NewRequest(http.MethodPost, "/analyze/file", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebugStore(t *testing.T) {
	rec := do(t, testHandler(t, testDeps(t)), httptest.NewRequest(http.MethodGet, "/analyze/debug/store", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"catalog_items":1,"history_rows":1,"priced_products":1,"competitor_rows":0,"stored_deals":0}`, rec.Body.String())
}

func TestQuoteGenerate_JSON(t *testing.T) {
	h := testHandler(t, testDeps(t))
	body := `{"deal_id":"D-1","company_name":"Acme Bio","products":["PureLink Endotoxin-Free Plasmid Kit","Unknown"]}`
	req := httptest.NewRequest(http.MethodPost, "/quote/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	state := decode[model.DealState](t, rec)
	assert.Equal(t, 400.0, *state.TotalPrice)
	assert.Len(t, state.PricedItems, 2)
	assert.Equal(t, model.StageDone, state.Stage)
	assert.NotEmpty(t, state.Insights.AdvisorActions)
	assert.False(t, state.Insights.DiscountAdvice.ShouldDiscount)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/quote/insights/D-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "D-1", decode[model.DealState](t, rec).DealID)
}

func TestQuoteReprice_Form(t *testing.T) {
	h := testHandler(t, testDeps(t))
	form := url.Values{
		"deal_id":       {"D-2"},
		"company_name":  {"Acme Bio"},
		"products":      {"ignored, because products_json wins"},
		"products_json": {`["PureLink Endotoxin-Free Plasmid Kit"]`},
	}

	var last model.DealState
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/quote/reprice", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := do(t, h, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		last = decode[model.DealState](t, rec)
	}
	assert.Equal(t, []string{"PureLink Endotoxin-Free Plasmid Kit"}, last.Products)
	assert.Equal(t, 2, last.Revision)
}

func TestQuote_Errors(t *testing.T) {
	h := testHandler(t, testDeps(t))

	req := httptest.NewRequest(http.MethodPost, "/quote/generate", strings.NewReader(`{"products":"A, B"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Message, "deal_id")

	req = httptest.NewRequest(http.MethodPost, "/quote/generate", strings.NewReader(`{"deal_id":"D","company_name":"C","products":7}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, do(t, h, req).Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/quote/insights/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Kind)
}

func TestParseQuoteRequest_ProductFallbacks(t *testing.T) {
	form := url.Values{"deal_id": {"D"}, "company_name": {"C"}, "products": {"A\nB, C"}, "products_json": {"not json"}}
	req := httptest.NewRequest(http.MethodPost, "/quote/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := parseQuoteRequest(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got.Products)
}

func TestProductsFromJSON(t *testing.T) {
	assert.Equal(t, []string{"A", "7"}, productsFromJSON(`[" A ", 7, null, ""]`))
	assert.Nil(t, productsFromJSON(`{"a":1}`))
	assert.Nil(t, productsFromJSON(""))
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/analyze/text", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := do(t, testHandler(t, testDeps(t)), req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
