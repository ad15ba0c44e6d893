// Package source defines the Source interface and the log producers logsieve reads from.
package source

import (
	"context"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// Source reads log data from an input and emits LogLine values on a channel.
// Implementations must close the returned channel when the source is exhausted
// or the context is cancelled. Line indices are assigned by the consumer.
type Source interface {
	// Start begins reading from the source. The returned channel will receive
	// lines until the source is exhausted or ctx is cancelled.
	// The implementation must close the channel when done.
	Start(ctx context.Context) (<-chan entry.LogLine, error)

	// Name returns a human-readable identifier for this source.
	Name() string
}

// Failer is implemented by sources whose producer can fail after Start,
// e.g. a command exiting non-zero. Err is valid once the channel is closed.
type Failer interface {
	Err() error
}

const (
	// line limits: lines longer than maxLineSize end the stream with an error.
	initialLineBuffer = 64 * 1024
	maxLineSize       = 1024 * 1024
	channelSize       = 256
)

// send delivers l unless ctx is done first.
func send(ctx context.Context, ch chan<- entry.LogLine, l entry.LogLine) bool {
	select {
	case ch <- l:
		return true
	case <-ctx.Done():
		return false
	}
}
