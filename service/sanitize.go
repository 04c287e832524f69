package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"romix-storefront/models"
	"romix-storefront/ranking"
	"romix-storefront/utils"
)

// HiddenPolicy decides which catalog products are never shown
type HiddenPolicy string

const (
	// HiddenByKeyword hides products whose text matches the winter-fabric pattern
	HiddenByKeyword HiddenPolicy = "keyword"
	// HiddenBySeason hides products of one season
	HiddenBySeason HiddenPolicy = "season"
	// HiddenNone shows everything
	HiddenNone HiddenPolicy = "none"
)

// DefaultHiddenPattern is the pattern used by the storefront pages to hide winter fabrics
const DefaultHiddenPattern = `(frizado|frisado|polar|t[ée]rmic)`

// Sanitizer repairs product text and drops hidden products
type Sanitizer struct {
	policy  HiddenPolicy
	pattern *regexp2.Regexp
	season  string
}

// NewSanitizer builds a Sanitizer for the given policy. An empty policy means keyword;
// an empty pattern means DefaultHiddenPattern. The pattern uses JavaScript syntax.
func NewSanitizer(policy HiddenPolicy, pattern string, season string) (*Sanitizer, error) {
	if policy == "" {
		policy = HiddenByKeyword
	}

	s := &Sanitizer{policy: policy}
	switch policy {
	case HiddenByKeyword:
		if strings.TrimSpace(pattern) == "" {
			pattern = DefaultHiddenPattern
		}
		re, err := regexp2.Compile(pattern, regexp2.ECMAScript|regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("failed to compile hidden pattern %q: %w", pattern, err)
		}
		re.MatchTimeout = 100 * time.Millisecond
		s.pattern = re
	case HiddenBySeason:
		s.season = ranking.NormalizeSeason(season)
		if s.season == "" {
			return nil, fmt.Errorf("hidden policy %q requires a season", policy)
		}
	case HiddenNone:
	default:
		return nil, fmt.Errorf("unknown hidden policy %q", policy)
	}
	return s, nil
}

// Policy returns the configured policy
func (s *Sanitizer) Policy() HiddenPolicy {
	return s.policy
}

// SanitizeProduct returns a copy of p with mis-encoded text repaired
func (s *Sanitizer) SanitizeProduct(p models.Product) models.Product {
	out := p
	out.Name = utils.FixUTF8(p.Name)
	out.Type = utils.FixUTF8(p.Type)
	out.Section = utils.FixUTF8(p.Section)
	out.Badge = utils.FixUTF8(p.Badge)
	out.Description = utils.FixUTF8(p.Description)

	if p.Colors != nil {
		out.Colors = make([]models.Color, len(p.Colors))
		for i, c := range p.Colors {
			c.Name = utils.FixUTF8(strings.TrimSpace(c.Name))
			out.Colors[i] = c
		}
	}
	if p.Sizes != nil {
		out.Sizes = append([]models.Size(nil), p.Sizes...)
	}
	return out
}

// IsHidden reports whether p must be kept out of every listing
func (s *Sanitizer) IsHidden(p models.Product) bool {
	switch s.policy {
	case HiddenByKeyword:
		text := strings.ToLower(strings.Join([]string{p.Name, p.Type, p.Section, p.Badge, p.Description}, " "))
		matched, err := s.pattern.MatchString(text)
		if err != nil {
			log.Printf("⚠️ Sanitizer: hidden pattern failed on %q: %v", p.Name, err)
			return false
		}
		return matched
	case HiddenBySeason:
		return ranking.NormalizeSeason(p.Season) == s.season
	}
	return false
}

// SanitizeList repairs every product and drops nameless and hidden ones
func (s *Sanitizer) SanitizeList(list []models.Product) []models.Product {
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		clean := s.SanitizeProduct(p)
		if strings.TrimSpace(clean.Name) == "" {
			continue
		}
		if s.IsHidden(clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}
