package search

import (
	"sync"

	"romix-storefront/models"
)

// Navigator tracks the highlighted entry of a rendered suggestion list
type Navigator struct {
	mu     sync.Mutex
	items  []models.Suggestion
	active int
}

// NewNavigator creates an empty Navigator with nothing highlighted
func NewNavigator() *Navigator {
	return &Navigator{active: -1}
}

// Reset replaces the list and clears the highlight
func (n *Navigator) Reset(items []models.Suggestion) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = items
	n.active = -1
}

// Down moves the highlight forward, wrapping to the first entry
func (n *Navigator) Down() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return -1
	}
	n.active = (n.active + 1) % len(n.items)
	return n.active
}

// Up moves the highlight back, wrapping to the last entry
func (n *Navigator) Up() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return -1
	}
	if n.active < 0 {
		n.active = len(n.items) - 1
	} else {
		n.active = (n.active - 1 + len(n.items)) % len(n.items)
	}
	return n.active
}

// Escape closes the list
func (n *Navigator) Escape() {
	n.Reset(nil)
}

// Enter returns the highlighted entry, if any
func (n *Navigator) Enter() (models.Suggestion, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active < 0 || n.active >= len(n.items) {
		return models.Suggestion{}, false
	}
	return n.items[n.active], true
}

// Items returns the current list
func (n *Navigator) Items() []models.Suggestion {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.items
}

// Active returns the highlighted index, -1 when none
func (n *Navigator) Active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}
