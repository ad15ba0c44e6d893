package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

func TestDetectLevel(t *testing.T) {
	lx := DefaultLexicon()

	testCases := []struct {
		name     string
		line     string
		expected entry.Level
		found    bool
	}{
		{"bracketed", "[ERROR] boom", entry.LevelError, true},
		{"colon", "WARN: disk almost full", entry.LevelWarn, true},
		{"bare lowercase", "2025-01-01 info server started", entry.LevelInfo, true},
		{"warning synonym", "Warning: deprecated flag", entry.LevelWarn, true},
		{"short forms", "12:00:01 DBG cache miss", entry.LevelDebug, true},
		{"trc", "TRC enter handler", entry.LevelTrace, true},
		{"critical is fatal", "CRITICAL: out of memory", entry.LevelFatal, true},
		{"panic is fatal", "panic: runtime error", entry.LevelFatal, true},
		{"key value", "level=error msg=failed", entry.LevelError, true},
		{"leftmost wins", "INFO retrying after ERROR", entry.LevelInfo, true},
		{"no partial words", "information about terrors", entry.LevelUnknown, false},
		{"stack frame", "  at foo.bar()", entry.LevelUnknown, false},
		{"empty", "", entry.LevelUnknown, false},
		{"binary looking", "\x00\x01\xff", entry.LevelUnknown, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := lx.Detect(tc.line)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestClassifyCarriesForward(t *testing.T) {
	levels := DefaultLexicon().Classify([]string{"[ERROR] boom", "  at foo.bar()", "[INFO] next"})
	assert.Equal(t, []entry.Level{entry.LevelError, entry.LevelError, entry.LevelInfo}, levels)
}

func TestClassifyStartOfStreamIsUnknown(t *testing.T) {
	levels := DefaultLexicon().Classify([]string{"plain", "still plain", "DEBUG now", "after"})
	assert.Equal(t, []entry.Level{
		entry.LevelUnknown, entry.LevelUnknown, entry.LevelDebug, entry.LevelDebug,
	}, levels)
}

func TestClassifierMatchesFold(t *testing.T) {
	lines := []string{"x", "WARN a", "b", "ERROR c", "d", "info e"}
	want := DefaultLexicon().Classify(lines)

	c := NewClassifier(nil)
	var got []entry.Level
	for _, l := range lines {
		got = append(got, c.Classify(l))
	}
	assert.Equal(t, want, got)
}

func TestNewLexicon(t *testing.T) {
	t.Run("custom tokens", func(t *testing.T) {
		lx, err := NewLexicon(map[entry.Level][]string{
			entry.LevelError: {"E", "Oops"},
			entry.LevelInfo:  {"I"},
		})
		require.NoError(t, err)

		level, ok := lx.Detect("[E] something")
		assert.True(t, ok)
		assert.Equal(t, entry.LevelError, level)

		_, ok = lx.Detect("ERROR is not known here")
		assert.False(t, ok)

		level, ok = lx.Detect("oops, retrying")
		assert.True(t, ok)
		assert.Equal(t, entry.LevelError, level)
	})

	t.Run("longest token wins", func(t *testing.T) {
		lx, err := NewLexicon(map[entry.Level][]string{
			entry.LevelWarn:  {"warn"},
			entry.LevelFatal: {"warning"},
		})
		require.NoError(t, err)
		level, _ := lx.Detect("warning: odd lexicon")
		assert.Equal(t, entry.LevelFatal, level)
	})

	errCases := map[string]map[entry.Level][]string{
		"empty":            {},
		"blank token":      {entry.LevelInfo: {" "}},
		"punctuation":      {entry.LevelInfo: {"[I]"}},
		"duplicate token":  {entry.LevelInfo: {"x"}, entry.LevelWarn: {"x"}},
		"unknown level":    {entry.LevelUnknown: {"u"}},
		"level out of set": {entry.Level(99): {"z"}},
	}
	for name, tokens := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLexicon(tokens)
			assert.Error(t, err)
		})
	}
}

func TestDefaultTokensIsCopy(t *testing.T) {
	toks := DefaultTokens()
	toks[entry.LevelInfo] = []string{"changed"}

	assert.Contains(t, DefaultTokens()[entry.LevelInfo], "info")
}

func TestLevelFilter(t *testing.T) {
	f := NewLevelFilter(entry.LevelWarn)
	levels := []entry.Level{entry.LevelInfo, entry.LevelWarn, entry.LevelError, entry.LevelDebug}

	var kept []int
	for i, l := range levels {
		if f.Match(&entry.LogEntry{LogLine: entry.LogLine{Index: i}, Level: l}) {
			kept = append(kept, i)
		}
	}
	assert.Equal(t, []int{1, 2}, kept)
	assert.Equal(t, "level>=WARN", f.Name())
}

func TestLevelFilterRejectsUnknown(t *testing.T) {
	for _, min := range entry.Levels {
		f := NewLevelFilter(min)
		assert.False(t, f.Match(&entry.LogEntry{Level: entry.LevelUnknown}))
	}
}
