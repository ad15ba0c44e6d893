package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// defaultTokens is the built-in level lexicon. Matching is case-insensitive on word boundaries.
var defaultTokens = map[entry.Level][]string{
	entry.LevelTrace: {"trace", "trc"},
	entry.LevelDebug: {"debug", "dbg"},
	entry.LevelInfo:  {"info", "inf"},
	entry.LevelWarn:  {"warn", "warning", "wrn"},
	entry.LevelError: {"error", "err"},
	entry.LevelFatal: {"fatal", "critical", "crit", "panic", "ftl"},
}

var tokenRegex = regexp.MustCompile(`^\w+$`)

// DefaultTokens returns a copy of the built-in level lexicon.
func DefaultTokens() map[entry.Level][]string {
	out := make(map[entry.Level][]string, len(defaultTokens))
	for l, toks := range defaultTokens {
		out[l] = append([]string(nil), toks...)
	}
	return out
}

// Lexicon maps level tokens found in log text to levels.
type Lexicon struct {
	tokens map[string]entry.Level
	re     *regexp.Regexp
}

// NewLexicon builds a lexicon from level tokens. Tokens must be word characters only
// and may belong to a single level.
func NewLexicon(tokens map[entry.Level][]string) (*Lexicon, error) {
	for l := range tokens {
		if l == entry.LevelUnknown || l > entry.LevelFatal {
			return nil, fmt.Errorf("lexicon: %w: %d", entry.ErrUnknownLevel, int(l))
		}
	}

	lx := &Lexicon{tokens: make(map[string]entry.Level)}
	var all []string

	for _, level := range entry.Levels {
		for _, tok := range tokens[level] {
			key := strings.ToLower(strings.TrimSpace(tok))
			if !tokenRegex.MatchString(key) {
				return nil, fmt.Errorf("level %s: invalid token %q", level, tok)
			}
			if prev, ok := lx.tokens[key]; ok && prev != level {
				return nil, fmt.Errorf("token %q assigned to both %s and %s", key, prev, level)
			}
			if _, ok := lx.tokens[key]; !ok {
				all = append(all, key)
			}
			lx.tokens[key] = level
		}
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("lexicon: no tokens")
	}

	// Longest first so that a longer token wins at the same position.
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})
	lx.re = regexp.MustCompile(`(?i)\b(?:` + strings.Join(all, "|") + `)\b`)
	return lx, nil
}

var defaultLexicon = func() *Lexicon {
	lx, err := NewLexicon(defaultTokens)
	if err != nil {
		panic(err)
	}
	return lx
}()

// DefaultLexicon returns the lexicon built from DefaultTokens.
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}

// Detect returns the level of the leftmost level token in text.
func (lx *Lexicon) Detect(text string) (entry.Level, bool) {
	loc := lx.re.FindStringIndex(text)
	if loc == nil {
		return entry.LevelUnknown, false
	}
	return lx.tokens[strings.ToLower(text[loc[0]:loc[1]])], true
}

// Next is one classification step: it returns the level assigned to text and the
// state to carry to the following line. Lines without a token inherit state.
func (lx *Lexicon) Next(state entry.Level, text string) (assigned, next entry.Level) {
	if level, ok := lx.Detect(text); ok {
		return level, level
	}
	return state, state
}

// Classify folds Next over lines starting from LevelUnknown.
func (lx *Lexicon) Classify(lines []string) []entry.Level {
	levels := make([]entry.Level, len(lines))
	state := entry.LevelUnknown
	for i, text := range lines {
		levels[i], state = lx.Next(state, text)
	}
	return levels
}

// Classifier carries the last known level across one stream of lines.
type Classifier struct {
	lexicon *Lexicon
	state   entry.Level
}

// NewClassifier creates a classifier; a nil lexicon uses DefaultLexicon.
func NewClassifier(lx *Lexicon) *Classifier {
	if lx == nil {
		lx = DefaultLexicon()
	}
	return &Classifier{lexicon: lx}
}

// Classify assigns a level to the next line of the stream.
func (c *Classifier) Classify(text string) entry.Level {
	var level entry.Level
	level, c.state = c.lexicon.Next(c.state, text)
	return level
}

// LevelFilter passes only entries at or above a minimum severity.
// Entries whose level is unknown never pass.
type LevelFilter struct {
	min entry.Level
}

// NewLevelFilter creates a filter for entries at or above min.
func NewLevelFilter(min entry.Level) *LevelFilter {
	return &LevelFilter{min: min}
}

// Match returns true if the entry's level is known and at least the minimum.
func (f *LevelFilter) Match(e *entry.LogEntry) bool {
	return e.Level.AtLeast(f.min)
}

// Name returns the filter description.
func (f *LevelFilter) Name() string {
	return "level>=" + f.min.String()
}
