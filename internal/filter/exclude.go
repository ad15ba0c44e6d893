package filter

import (
	"github.com/Geun-Oh/logsieve/internal/entry"
)

// ExcludeFilter is a negative filter: Match returns true if the entry should PASS,
// i.e. its text does NOT match the pattern.
type ExcludeFilter struct {
	m Matcher
}

// NewExcludeFilter creates a filter that rejects entries matching m.
func NewExcludeFilter(m Matcher) *ExcludeFilter {
	return &ExcludeFilter{m: m}
}

// Match returns true if the entry text does NOT match.
func (f *ExcludeFilter) Match(e *entry.LogEntry) bool {
	return !f.m.MatchString(e.Text)
}

// Name returns the filter description.
func (f *ExcludeFilter) Name() string {
	return "exclude:" + f.m.String()
}
