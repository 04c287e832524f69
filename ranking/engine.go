package ranking

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"romix-storefront/models"
	"romix-storefront/utils"
)

//go:embed rules.json
var defaultRules []byte

// Unranked is the rank of a product no rule (or section) matched
const Unranked = math.MaxInt

// ErrInvalidConfig is returned when the ranking config fails validation
var ErrInvalidConfig = errors.New("invalid ranking config")

// RankingConfig represents the ranking configuration structure
type RankingConfig struct {
	SectionPriority    map[string]int    `json:"sectionPriority"`
	Sections           map[string][]Rule `json:"sections"`
	Verano             VeranoConfig      `json:"verano"`
	MediaEstacionNames []string          `json:"mediaEstacionNames"`
}

// Rule matches a product name when every include is present and no exclude is
type Rule struct {
	Includes []string `json:"includes"`
	Excludes []string `json:"excludes,omitempty"`
}

// VeranoConfig holds the keyword and type tables of the summer ordering
type VeranoConfig struct {
	FibranKeywords []string            `json:"fibranKeywords"`
	MorleyKeywords []string            `json:"morleyKeywords"`
	LycraKeyword   string              `json:"lycraKeyword"`
	Types          map[string][]string `json:"types"`
}

// Engine orders catalog listings based on JSON configuration
type Engine struct {
	config     *RankingConfig
	mediaNames map[string]bool
}

// NewEngine loads the ranking config from configPath, or the embedded
// default rules when configPath is empty.
func NewEngine(configPath string) (*Engine, error) {
	data := defaultRules
	source := "embedded rules"

	if configPath != "" {
		// Resolve config path
		if !filepath.IsAbs(configPath) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			configPath = filepath.Join(wd, configPath)
		}

		var err error
		data, err = os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read ranking config: %w", err)
		}
		source = configPath
	}

	engine, err := NewEngineFromJSON(data)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ RankingEngine: Successfully loaded ranking config from %s", source)
	return engine, nil
}

// NewEngineFromJSON builds an engine from raw config bytes
func NewEngineFromJSON(data []byte) (*Engine, error) {
	var config RankingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse ranking config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	normalizeConfig(&config)

	mediaNames := make(map[string]bool, len(config.MediaEstacionNames))
	for _, name := range config.MediaEstacionNames {
		if n := utils.NormalizeName(name); n != "" {
			mediaNames[n] = true
		}
	}

	return &Engine{config: &config, mediaNames: mediaNames}, nil
}

func validateConfig(config *RankingConfig) error {
	if len(config.Sections) == 0 {
		return fmt.Errorf("sections are required")
	}
	for section, rules := range config.Sections {
		if len(rules) == 0 {
			return fmt.Errorf("section %s has no rules", section)
		}
		for i, rule := range rules {
			if len(rule.Includes) == 0 {
				return fmt.Errorf("rule %d of section %s has no includes", i, section)
			}
		}
	}
	if len(config.SectionPriority) == 0 {
		return fmt.Errorf("sectionPriority is required")
	}
	return nil
}

// normalizeConfig folds keys and keywords into normalized form so matching never
// depends on how the config was written.
func normalizeConfig(config *RankingConfig) {
	sections := make(map[string][]Rule, len(config.Sections))
	for section, rules := range config.Sections {
		normalized := make([]Rule, len(rules))
		for i, rule := range rules {
			normalized[i] = Rule{
				Includes: normalizeAll(rule.Includes),
				Excludes: normalizeAll(rule.Excludes),
			}
		}
		sections[utils.Normalize(section)] = normalized
	}
	config.Sections = sections

	priority := make(map[string]int, len(config.SectionPriority))
	for section, p := range config.SectionPriority {
		priority[utils.Normalize(section)] = p
	}
	config.SectionPriority = priority

	v := &config.Verano
	v.FibranKeywords = normalizeAll(v.FibranKeywords)
	v.MorleyKeywords = normalizeAll(v.MorleyKeywords)
	v.LycraKeyword = utils.Normalize(v.LycraKeyword)
	types := make(map[string][]string, len(v.Types))
	for kind, names := range v.Types {
		types[kind] = normalizeAll(names)
	}
	v.Types = types
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := utils.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Matches reports whether every include is a substring of text and no exclude is
func (r Rule) Matches(text string) bool {
	for _, inc := range r.Includes {
		if !strings.Contains(text, inc) {
			return false
		}
	}
	for _, exc := range r.Excludes {
		if strings.Contains(text, exc) {
			return false
		}
	}
	return true
}

// Rank returns the index of the first rule of section's table matching the
// product name, or Unranked.
func (e *Engine) Rank(p models.Product, section string) int {
	rules := e.config.Sections[utils.Normalize(section)]
	if len(rules) == 0 {
		return Unranked
	}

	name := utils.Normalize(p.Name)
	for i, rule := range rules {
		if rule.Matches(name) {
			return i
		}
	}
	return Unranked
}

// SectionRank returns the listing priority of the product's section
func (e *Engine) SectionRank(p models.Product) int {
	if rank, ok := e.config.SectionPriority[utils.NormalizeSection(p.Section)]; ok {
		return rank
	}
	return Unranked
}

// HasSection reports whether section names a rule table
func (e *Engine) HasSection(section string) bool {
	return len(e.config.Sections[utils.Normalize(section)]) > 0
}

type rankedProduct struct {
	item        models.Product
	index       int
	sectionRank int
	rank        int
}

// Order returns the products in relevance order. When pageSection names a
// rule table every product is ranked against it; otherwise products are grouped
// by section priority and ranked within their own section. Ties keep input order.
// The input slice is not modified.
func (e *Engine) Order(list []models.Product, pageSection string) []models.Product {
	explicit := ""
	if e.HasSection(pageSection) {
		explicit = utils.Normalize(pageSection)
	}

	entries := make([]rankedProduct, len(list))
	for i, p := range list {
		entry := rankedProduct{item: p, index: i}
		if explicit != "" {
			entry.rank = e.Rank(p, explicit)
		} else {
			entry.sectionRank = e.SectionRank(p)
			entry.rank = e.Rank(p, utils.NormalizeSection(p.Section))
		}
		entries[i] = entry
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.sectionRank != b.sectionRank {
			return a.sectionRank < b.sectionRank
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.index < b.index
	})

	out := make([]models.Product, len(entries))
	for i, entry := range entries {
		out[i] = entry.item
	}
	return out
}
