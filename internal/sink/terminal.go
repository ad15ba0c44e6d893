package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// color ANSI escape codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// DefaultSeparator is printed between groups that are not contiguous, as grep does.
const DefaultSeparator = "--"

// TerminalOptions controls the text layout.
type TerminalOptions struct {
	Color     bool
	Meta      bool   // prefix [timestamp][stream][LEVEL]
	Number    bool   // prefix the original index, ':' for matches and '-' for context
	Separator string // empty disables separators
}

// TerminalSink writes groups as text with optional ANSI color.
type TerminalSink struct {
	w      *bufio.Writer
	opts   TerminalOptions
	groups int
}

// NewTerminalSink creates a sink that writes to the given writer.
func NewTerminalSink(w io.Writer, opts TerminalOptions) *TerminalSink {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalSink{w: bufio.NewWriter(w), opts: opts}
}

// ColorEnabled resolves a color mode of "always", "never" or "auto" for the given file.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" || f == nil {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// Write outputs a group, preceded by the separator when it is not the first.
func (s *TerminalSink) Write(g *entry.Group) error {
	if s.groups > 0 && s.opts.Separator != "" {
		if s.opts.Color {
			fmt.Fprintf(s.w, "%s%s%s\n", colorCyan, s.opts.Separator, colorReset)
		} else {
			fmt.Fprintln(s.w, s.opts.Separator)
		}
	}
	s.groups++

	for i := range g.Lines {
		if err := s.writeLine(&g.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TerminalSink) writeLine(e *entry.LogEntry) error {
	if s.opts.Number {
		mark := "-"
		if e.Matched {
			mark = ":"
		}
		if s.opts.Color {
			fmt.Fprintf(s.w, "%s%d%s", colorGray, e.Index, mark+colorReset)
		} else {
			fmt.Fprintf(s.w, "%d%s", e.Index, mark)
		}
	}

	if !s.opts.Meta {
		_, err := fmt.Fprintln(s.w, s.text(e))
		return err
	}

	if !s.opts.Color {
		_, err := fmt.Fprintln(s.w, e.Format())
		return err
	}

	// Colorized output.
	if !e.Timestamp.IsZero() {
		fmt.Fprintf(s.w, "%s[%s]%s", colorGray, e.Timestamp.Format(time.RFC3339), colorReset)
	}
	if e.Stream != "" {
		fmt.Fprintf(s.w, "[%s]", e.Stream)
	}
	if e.Level != entry.LevelUnknown {
		fmt.Fprintf(s.w, "%s[%s]%s", s.levelColor(e.Level), e.Level, colorReset)
	}
	_, err := fmt.Fprintf(s.w, ": %s\n", s.text(e))
	return err
}

func (s *TerminalSink) text(e *entry.LogEntry) string {
	if !s.opts.Color || !e.Matched || e.Level == entry.LevelUnknown {
		return e.Text
	}
	return s.levelColor(e.Level) + e.Text + colorReset
}

// Flush writes buffered output.
func (s *TerminalSink) Flush() error { return s.w.Flush() }

// Close flushes buffered output.
func (s *TerminalSink) Close() error { return s.w.Flush() }

// Name returns the sink identifier.
func (s *TerminalSink) Name() string { return "terminal" }

func (s *TerminalSink) levelColor(l entry.Level) string {
	switch l {
	case entry.LevelError, entry.LevelFatal:
		return colorBold + colorRed
	case entry.LevelWarn:
		return colorYellow
	case entry.LevelDebug, entry.LevelTrace:
		return colorGray
	default:
		return colorCyan
	}
}
