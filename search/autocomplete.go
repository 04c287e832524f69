package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"romix-storefront/models"
)

// ProductSource returns the current catalog
type ProductSource func(ctx context.Context) []models.Product

// Autocomplete turns raw keystrokes into suggestion lists. Input shorter than
// MinQueryLength clears the list right away; longer input is debounced and
// only the latest query gets published.
type Autocomplete struct {
	engine    *Engine
	source    ProductSource
	debouncer *Debouncer
	nav       *Navigator
	publish   func(query string, items []models.Suggestion)
}

// NewAutocomplete wires an engine to a product source. publish receives every
// list that reaches the user (including empty ones). A debounced list is
// published under the debouncer lock, so publish must not call Input.
func NewAutocomplete(engine *Engine, source ProductSource, delay time.Duration, publish func(query string, items []models.Suggestion)) *Autocomplete {
	if publish == nil {
		publish = func(string, []models.Suggestion) {}
	}
	return &Autocomplete{
		engine:    engine,
		source:    source,
		debouncer: NewDebouncer(delay),
		nav:       NewNavigator(),
		publish:   publish,
	}
}

// Input handles a change of the search box
func (a *Autocomplete) Input(ctx context.Context, raw string) {
	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) < MinQueryLength {
		a.debouncer.Cancel()
		a.nav.Reset(nil)
		a.publish(q, nil)
		return
	}

	a.debouncer.Schedule(func(commit func(apply func()) bool) {
		items := a.engine.Suggest(a.source(ctx), q)
		commit(func() {
			a.nav.Reset(items)
			a.publish(q, items)
		})
	})
}

// Navigator exposes keyboard navigation over the published list
func (a *Autocomplete) Navigator() *Navigator {
	return a.nav
}
