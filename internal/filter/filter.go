// Package filter implements the logsieve filtering engine: level classification,
// per-line predicates and context window assembly.
package filter

import (
	"strings"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// Filter determines whether a classified LogEntry passes a filtering criterion.
type Filter interface {
	// Match returns true if the entry passes this filter.
	Match(e *entry.LogEntry) bool

	// Name returns a human-readable description of this filter.
	Name() string
}

// Chain combines filters with AND semantics.
type Chain struct {
	filters []Filter
}

// NewChain creates a Chain of the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Match evaluates the chain against an entry.
// Returns true if no filters are configured (pass-through).
func (c *Chain) Match(e *entry.LogEntry) bool {
	for _, f := range c.filters {
		if !f.Match(e) {
			return false
		}
	}
	return true
}

// Name returns a description of the chain.
func (c *Chain) Name() string {
	if len(c.filters) == 0 {
		return "all"
	}
	names := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		names = append(names, f.Name())
	}
	return strings.Join(names, " AND ")
}
