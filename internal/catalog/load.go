// Package catalog loads the product catalog and ranks products against
// free-text requests.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/source"
)

var (
	entrySplitRe = regexp.MustCompile(`\n\s*\d+\.\s+`)
	fieldRes     = map[string]*regexp.Regexp{}
)

func init() {
	for _, f := range []string{"Description", "Use Case", "Key Features", "Keywords"} {
		fieldRes[f] = regexp.MustCompile(regexp.QuoteMeta(f) + `:[ \t]*(.*)`)
	}
}

// Load reads a catalog file. The format is chosen by extension: .json and
// .yaml/.yml hold an array of entries, anything else is the numbered text
// format. A missing or unreadable file is a data error.
func Load(ctx context.Context, path string) ([]model.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Data(err, "catalog: open "+path)
	}
	defer f.Close() //nolint:errcheck

	var entries []model.CatalogEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = source.CollectJSONArray[model.CatalogEntry](ctx, f)
		if err != nil {
			return nil, apperr.Data(err, "catalog: decode json")
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&entries); err != nil {
			return nil, apperr.Data(eris.Wrap(err, "yaml decode"), "catalog: decode yaml")
		}
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperr.Data(err, "catalog: read "+path)
		}
		entries = ParseText(string(raw))
	}

	return normalize(entries), nil
}

// ParseText parses the numbered text catalog format:
//
//  1. Product Name
//     Description: ...
//     Use Case: ...
//     Key Features: ...
//     Keywords: a, b, c
func ParseText(raw string) []model.CatalogEntry {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	blocks := entrySplitRe.Split("\n"+raw, -1)

	var out []model.CatalogEntry
	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		name, _, _ := strings.Cut(block, "\n")
		out = append(out, model.CatalogEntry{
			ProductName: strings.TrimSpace(name),
			Description: field(block, "Description"),
			UseCase:     field(block, "Use Case"),
			KeyFeatures: field(block, "Key Features"),
			Keywords:    strings.Split(field(block, "Keywords"), ","),
		})
	}
	return normalize(out)
}

func field(block, name string) string {
	m := fieldRes[name].FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// normalize drops unnamed entries and trims and lowercases keyword tokens.
// It returns a new slice and is safe to apply more than once.
func normalize(entries []model.CatalogEntry) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		e.ProductName = strings.TrimSpace(e.ProductName)
		if e.ProductName == "" {
			continue
		}
		kws := make([]string, 0, len(e.Keywords))
		for _, k := range e.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		e.Keywords = kws
		out = append(out, e)
	}
	return out
}
