package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"romix-storefront/models"
	"romix-storefront/utils"
)

const (
	// MinQueryLength is the shortest input that produces suggestions
	MinQueryLength = 2
	// MaxSuggestions caps the autocomplete list
	MaxSuggestions = 8
)

// Suggest builds the autocomplete list for term: scored like Search, best first,
// one entry per slug, at most MaxSuggestions.
func (e *Engine) Suggest(products []models.Product, term string) []models.Suggestion {
	q := strings.TrimSpace(term)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []models.Suggestion{}
	}
	qn := utils.Normalize(q)
	if qn == "" {
		return []models.Suggestion{}
	}

	candidates := make([]models.Suggestion, 0)
	for i := range products {
		p := &products[i]
		score := e.Score(*p, qn)
		if score < 0 {
			continue
		}
		label := p.Type
		if p.Section != "" {
			label = strings.ToUpper(p.Section)
		}
		candidates = append(candidates, models.Suggestion{
			Name:  p.Name,
			Label: label,
			Slug:  utils.Slugify(p.Name),
			Href:  utils.DetailURL(*p),
			Score: score,
			Item:  p,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	seen := make(map[string]bool)
	out := make([]models.Suggestion, 0, MaxSuggestions)
	for _, c := range candidates {
		if len(out) >= MaxSuggestions {
			break
		}
		key := strings.ToLower(firstNonEmpty(c.Slug, c.Name))
		if seen[key] || c.Name == "" {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
