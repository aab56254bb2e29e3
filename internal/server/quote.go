package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/quote"
)

// quoteForm is a quote request as posted by a form or JSON client.
type quoteForm struct {
	DealID       string          `json:"deal_id"`
	CompanyName  string          `json:"company_name"`
	Products     json.RawMessage `json:"products"`
	ProductsJSON string          `json:"products_json"`
}

// generateQuote serves both generation and repricing; a repeated deal id
// replaces the stored quote.
func (h *handler) generateQuote(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuoteRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := h.deps.Quotes.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *handler) insights(w http.ResponseWriter, r *http.Request) {
	state, err := h.deps.Quotes.Insights(chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// parseQuoteRequest accepts a JSON body or form fields. The products_json
// array takes precedence over the free-text products list.
func parseQuoteRequest(r *http.Request) (model.QuoteRequest, error) {
	var (
		f        quoteForm
		products string
		listed   []string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			return model.QuoteRequest{}, apperr.Validation("invalid request body: %v", err)
		}
		if len(f.Products) > 0 {
			if json.Unmarshal(f.Products, &listed) != nil && json.Unmarshal(f.Products, &products) != nil {
				return model.QuoteRequest{}, apperr.Validation("products must be a string or an array of strings")
			}
		}
	} else {
		if err := r.ParseMultipartForm(10 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return model.QuoteRequest{}, apperr.Validation("invalid form: %v", err)
		}
		f.DealID = r.FormValue("deal_id")
		f.CompanyName = r.FormValue("company_name")
		f.ProductsJSON = r.FormValue("products_json")
		products = r.FormValue("products")
	}

	list := productsFromJSON(f.ProductsJSON)
	if len(list) == 0 {
		list = listed
	}
	if len(list) == 0 {
		list = quote.ParseProducts(products)
	}
	return model.QuoteRequest{DealID: f.DealID, CompanyName: f.CompanyName, Products: list}, nil
}

// productsFromJSON decodes a JSON array of product names; anything that is
// not such an array yields nil.
func productsFromJSON(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var raw []any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		var name string
		switch t := v.(type) {
		case string:
			name = t
		case nil:
			continue
		default:
			b, _ := json.Marshal(t)
			name = string(b)
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
