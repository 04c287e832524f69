// Package search implements the storefront's free-text search: tiered scoring
// with fuzzy token fallback, autocomplete suggestions, input debouncing and
// keyboard navigation over the suggestion list.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"romix-storefront/models"
	"romix-storefront/utils"
)

// Options narrows a search
type Options struct {
	// Category keeps only products whose normalized section equals it
	Category string
}

// Engine scores products against a query
type Engine struct {
	lang language.Tag
}

// NewEngine creates a search engine collating names in Spanish
func NewEngine() *Engine {
	return &Engine{lang: language.Spanish}
}

// Score rates how well p matches the normalized query qn. The first tier that
// applies wins:
//
//	name starts with q       120 - len(name)
//	name contains q          100 - index
//	type contains q           80 - index
//	description contains q    60 - index
//	compact name contains q   75
//	token match              40+3m (partial) or 70+3m (all tokens)
//
// A negative score means no match.
func (e *Engine) Score(p models.Product, qn string) int {
	if qn == "" {
		return -1
	}

	name := utils.Normalize(p.Name)
	kind := utils.Normalize(p.Type)
	desc := utils.Normalize(p.Description)

	if strings.HasPrefix(name, qn) {
		return 120 - utf8.RuneCountInString(name)
	}
	if i := runeIndex(name, qn); i >= 0 {
		return 100 - i
	}
	if i := runeIndex(kind, qn); i >= 0 {
		return 80 - i
	}
	if i := runeIndex(desc, qn); i >= 0 {
		return 60 - i
	}

	if cq := utils.Compact(qn); cq != "" && strings.Contains(utils.Compact(name), cq) {
		return 75
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{name, kind, desc} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	combined := strings.Join(parts, " ")
	return tokenMatchScore(utils.Tokenize(qn), combined, utils.Tokenize(combined))
}

type scored struct {
	product models.Product
	score   int
}

// Search returns the products matching term, best first. Products without a
// name or with a negative score are dropped, duplicates (by id, slug or name)
// are kept once, and equal scores are ordered by name.
func (e *Engine) Search(products []models.Product, term string, opts Options) []models.Product {
	qn := utils.Normalize(term)
	if qn == "" {
		return []models.Product{}
	}

	category := utils.Normalize(opts.Category)
	seen := make(map[string]bool)
	results := make([]scored, 0)

	for _, p := range products {
		if p.Name == "" {
			continue
		}
		if category != "" && utils.Normalize(p.Section) != category {
			continue
		}
		score := e.Score(p, qn)
		if score < 0 {
			continue
		}
		key := strings.ToLower(firstNonEmpty(p.ID, p.Slug, p.Name))
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, scored{product: p, score: score})
	}

	col := collate.New(e.lang)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return col.CompareString(results[i].product.Name, results[j].product.Name) < 0
	})

	out := make([]models.Product, len(results))
	for i, r := range results {
		out[i] = r.product
	}
	return out
}

// FindFirst returns the index of the first product whose normalized name
// contains the query, or -1.
func FindFirst(products []models.Product, query string) int {
	q := utils.Normalize(query)
	if q == "" {
		return -1
	}
	for i, p := range products {
		if strings.Contains(utils.Normalize(p.Name), q) {
			return i
		}
	}
	return -1
}

// ResultsURL is the listing page reference a submitted search lands on
func ResultsURL(term string) string {
	return "index.html?q=" + utils.EncodeURIComponent(strings.TrimSpace(term))
}

// runeIndex is strings.Index counted in runes
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
