package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Geun-Oh/logsieve/internal/buffer"
	"github.com/Geun-Oh/logsieve/internal/entry"
)

// FileSource reads log lines from a file, optionally following new writes (tail -f).
type FileSource struct {
	path   string
	follow bool
	tail   int
	poll   time.Duration
	err    error
}

// NewFileSource creates a source that reads from a file.
// If tail is positive only the last tail lines present at start are emitted.
// If follow is true, it continues reading as new lines are appended.
func NewFileSource(path string, follow bool, tail int) *FileSource {
	return &FileSource{
		path:   path,
		follow: follow,
		tail:   tail,
		poll:   100 * time.Millisecond,
	}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Err returns a read failure once the channel is closed.
func (s *FileSource) Err() error {
	return s.err
}

// Start opens the file and returns a channel of log lines.
func (s *FileSource) Start(ctx context.Context) (<-chan entry.LogLine, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", s.path, err)
	}

	ch := make(chan entry.LogLine, channelSize)

	go func() {
		defer close(ch)
		defer f.Close()

		// One reader for the whole run: an unterminated last line stays
		// buffered until the writer finishes it.
		lr := newLineReader(f)
		if err := readLines(ctx, lr, "file", s.Name(), s.tail, !s.follow, ch); err != nil {
			s.err = err
			return
		}

		for s.follow {
			// Poll for new data when following.
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.poll):
			}
			if err := readLines(ctx, lr, "file", s.Name(), 0, false, ch); err != nil {
				s.err = err
				return
			}
		}
	}()

	return ch, nil
}

// readLines sends every complete line available from lr. With tail > 0 only
// the last tail lines are sent, once lr is exhausted. When final is set the
// input has ended and an unterminated last line is sent as well.
func readLines(ctx context.Context, lr *lineReader, stream, name string, tail int, final bool, ch chan<- entry.LogLine) error {
	var ring *buffer.Ring[entry.LogLine]
	if tail > 0 {
		ring = buffer.NewRing[entry.LogLine](tail)
	}

	emit := func(text string) bool {
		l := entry.LogLine{Timestamp: time.Now(), Stream: stream, Source: name, Text: text}
		if ring != nil {
			ring.Push(l)
			return true
		}
		return send(ctx, ch, l)
	}

	for {
		text, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !emit(text) {
			return nil
		}
	}

	if final {
		if text, ok := lr.rest(); ok && !emit(text) {
			return nil
		}
	}

	if ring != nil {
		for _, l := range ring.Drain() {
			if !send(ctx, ch, l) {
				return nil
			}
		}
	}
	return nil
}
