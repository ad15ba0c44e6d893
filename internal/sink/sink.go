// Package sink defines the Sink interface for pipeline output.
package sink

import (
	"github.com/Geun-Oh/logsieve/internal/entry"
)

// Sink receives assembled groups, in stream order, and writes them to an output destination.
type Sink interface {
	// Write outputs one group of contiguous lines.
	Write(g *entry.Group) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}
