// Package entry defines the line, level and group types shared by the logsieve pipeline.
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Level represents log severity levels.
// LevelUnknown ranks below every real level and never satisfies a minimum.
type Level int

const (
	LevelUnknown Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// ErrUnknownLevel is returned by ParseLevel for names outside the six canonical levels.
var ErrUnknownLevel = errors.New("unknown log level")

// Levels lists the real levels in ascending severity.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}

// String returns the string representation of a Level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// AtLeast reports whether l is a known level at or above min.
func (l Level) AtLeast(min Level) bool {
	return l != LevelUnknown && l >= min
}

// ParseLevel converts one of trace, debug, info, warn, error or fatal to a Level. Case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelUnknown, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// LogLine is one line of producer output. Index is its 0-based position in the
// stream and the only ordering key; the other fields are producer metadata.
type LogLine struct {
	Index     int
	Text      string
	Stream    string    // stdout, stderr, file, stdin
	Source    string    // source identifier (container, pod, file name, ...)
	Timestamp time.Time // zero when the producer gave none
}

// LogEntry is a line after classification and filtering.
type LogEntry struct {
	LogLine
	Level   Level
	Matched bool // false for context lines pulled in around a match
}

// Format returns a formatted string representation of the entry.
func (e *LogEntry) Format() string {
	var sb strings.Builder
	if !e.Timestamp.IsZero() {
		sb.WriteString("[" + e.Timestamp.Format(time.RFC3339) + "]")
	}
	if e.Stream != "" {
		sb.WriteString("[" + e.Stream + "]")
	}
	if e.Level != LevelUnknown {
		sb.WriteString("[" + e.Level.String() + "]")
	}
	if sb.Len() == 0 {
		return e.Text
	}
	return sb.String() + ": " + e.Text
}

// Group is a contiguous block of emitted lines covering original indices Start..End inclusive.
type Group struct {
	Start int
	End   int
	Lines []LogEntry
}

// Len returns the number of lines in the group.
func (g *Group) Len() int {
	return len(g.Lines)
}

