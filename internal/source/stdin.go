package source

import (
	"context"
	"io"
	"os"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// StdinSource reads log lines from a reader, os.Stdin by default (pipe mode).
type StdinSource struct {
	r    io.Reader
	tail int
	err  error
}

// NewStdinSource creates a source that reads from r, or os.Stdin when r is nil.
// If tail is positive only the last tail lines are emitted, after r is exhausted.
func NewStdinSource(r io.Reader, tail int) *StdinSource {
	if r == nil {
		r = os.Stdin
	}
	return &StdinSource{r: r, tail: tail}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Err returns a read failure once the channel is closed.
func (s *StdinSource) Err() error {
	return s.err
}

// Start reads from the reader and returns a channel of log lines.
func (s *StdinSource) Start(ctx context.Context) (<-chan entry.LogLine, error) {
	ch := make(chan entry.LogLine, channelSize)

	go func() {
		defer close(ch)
		s.err = readLines(ctx, newLineReader(s.r), "stdin", s.Name(), s.tail, true, ch)
	}()

	return ch, nil
}
