package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// jsonEntry is the serialization format for JSON Lines output.
type jsonEntry struct {
	Index     int    `json:"index"`
	Group     int    `json:"group"`
	Matched   bool   `json:"matched"`
	Timestamp string `json:"timestamp,omitempty"`
	Stream    string `json:"stream,omitempty"`
	Level     string `json:"level,omitempty"`
	Source    string `json:"source,omitempty"`
	Text      string `json:"text"`
}

// JSONSink writes log lines as JSON Lines (one JSON object per line).
// Lines of the same group share a group number.
type JSONSink struct {
	w      io.Writer
	enc    *json.Encoder
	groups int
}

// NewJSONSink creates a JSON Lines sink writing to the given writer.
func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONSink{w: w, enc: enc}
}

// Write serializes every line of a group.
func (s *JSONSink) Write(g *entry.Group) error {
	for _, e := range g.Lines {
		je := jsonEntry{
			Index:   e.Index,
			Group:   s.groups,
			Matched: e.Matched,
			Stream:  e.Stream,
			Source:  e.Source,
			Text:    e.Text,
		}
		if !e.Timestamp.IsZero() {
			je.Timestamp = e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
		}
		if e.Level != entry.LevelUnknown {
			je.Level = e.Level.String()
		}
		if err := s.enc.Encode(je); err != nil {
			return err
		}
	}
	s.groups++
	return nil
}

// Flush is a no-op for JSON sink.
func (s *JSONSink) Flush() error { return nil }

// Close is a no-op for JSON sink.
func (s *JSONSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *JSONSink) Name() string { return "json" }

// FileSink writes groups to a file.
type FileSink struct {
	inner Sink
	file  *os.File
}

// NewFileSink creates a sink that writes to the given file path.
// The format parameter selects the inner formatter: "json" or "text" (default).
func NewFileSink(path string, format string, opts TerminalOptions) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}

	var inner Sink
	switch format {
	case "json":
		inner = NewJSONSink(f)
	default:
		opts.Color = false
		inner = NewTerminalSink(f, opts)
	}

	return &FileSink{inner: inner, file: f}, nil
}

// Write delegates to the inner sink.
func (s *FileSink) Write(g *entry.Group) error {
	return s.inner.Write(g)
}

// Flush syncs the file to disk.
func (s *FileSink) Flush() error {
	if err := s.inner.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

// Name returns the sink identifier.
func (s *FileSink) Name() string {
	return "file:" + s.file.Name()
}
