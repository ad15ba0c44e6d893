package filter

import (
	"strings"
)

// LiteralMatcher matches lines containing a fixed string.
type LiteralMatcher struct {
	keyword       string
	caseSensitive bool
}

// NewLiteralMatcher creates a fixed-string matcher.
func NewLiteralMatcher(keyword string, caseSensitive bool) *LiteralMatcher {
	if !caseSensitive {
		keyword = strings.ToLower(keyword)
	}
	return &LiteralMatcher{keyword: keyword, caseSensitive: caseSensitive}
}

// MatchString returns true if s contains the keyword.
func (m *LiteralMatcher) MatchString(s string) bool {
	if !m.caseSensitive {
		s = strings.ToLower(s)
	}
	return strings.Contains(s, m.keyword)
}

// String returns the keyword.
func (m *LiteralMatcher) String() string {
	return m.keyword
}
