package filter

import (
	"fmt"
	"regexp"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// Matcher reports whether a pattern occurs anywhere in a line.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
	String() string
}

// CompilePattern compiles a regex once for reuse across all lines of a run.
// Unless caseSensitive is set the pattern matches case-insensitively.
func CompilePattern(pattern string, caseSensitive bool) (Matcher, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return re, nil
}

// IncludeFilter passes entries whose text matches the pattern.
type IncludeFilter struct {
	m Matcher
}

// NewIncludeFilter creates a filter that keeps matching entries.
func NewIncludeFilter(m Matcher) *IncludeFilter {
	return &IncludeFilter{m: m}
}

// Match returns true if the entry text matches.
func (f *IncludeFilter) Match(e *entry.LogEntry) bool {
	return f.m.MatchString(e.Text)
}

// Name returns the filter description.
func (f *IncludeFilter) Name() string {
	return "include:" + f.m.String()
}
