// Package pipeline orchestrates Source → Engine → Sink processing.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/filter"
	"github.com/Geun-Oh/logsieve/internal/logging"
	"github.com/Geun-Oh/logsieve/internal/monitor"
	"github.com/Geun-Oh/logsieve/internal/sink"
	"github.com/Geun-Oh/logsieve/internal/source"
)

// Config holds pipeline configuration.
type Config struct {
	Source source.Source
	Spec   *filter.Spec
	Sinks  []sink.Sink
	Stats  *monitor.Stats // optional
	Logger *zap.Logger    // optional
}

// Run executes one filtering run: reads from source, filters, and writes groups to sinks.
// Blocks until the source is exhausted or ctx is cancelled. Configuration errors
// are returned before the source is started.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Source == nil {
		return fmt.Errorf("pipeline: source is required")
	}
	if len(cfg.Sinks) == 0 {
		return fmt.Errorf("pipeline: at least one sink is required")
	}
	log := logging.OrNop(cfg.Logger)

	engine, err := filter.NewEngine(cfg.Spec)
	if err != nil {
		return err
	}
	stats := cfg.Stats
	if stats == nil {
		stats = monitor.NewStats()
	}

	log.Debug("starting source",
		zap.String("source", cfg.Source.Name()),
		zap.String("filter", engine.Describe()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := cfg.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: start source: %w", err)
	}

	return Drain(ctx, ch, engine, stats, func(g *entry.Group) error {
		return writeAll(cfg.Sinks, g)
	}, func() error {
		if err := closeAll(cfg.Sinks); err != nil {
			return err
		}
		log.Debug("source finished",
			zap.String("source", cfg.Source.Name()),
			zap.Uint64("lines", stats.Total()),
			zap.Uint64("matched", stats.Matched()),
			zap.Uint64("groups", stats.Groups()))
		return sourceErr(cfg.Source)
	})
}

// Drain feeds every line from ch through engine and hands finished groups to emit.
// finish runs once the stream ends, after the last group; it does not run when emit fails.
func Drain(ctx context.Context, ch <-chan entry.LogLine, engine *filter.Engine, stats *monitor.Stats,
	emit func(*entry.Group) error, finish func() error) error {
	for l := range ch {
		stats.RecordLine()
		before := engine.Matches()

		g, ok := engine.FeedLine(l)
		if engine.Matches() > before {
			stats.RecordMatch()
		}
		if ok {
			stats.RecordGroup(g.Len())
			if err := emit(&g); err != nil {
				return err
			}
		}
	}

	if g, ok := engine.Close(); ok {
		stats.RecordGroup(g.Len())
		if err := emit(&g); err != nil {
			return err
		}
	}

	if err := finish(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func writeAll(sinks []sink.Sink, g *entry.Group) error {
	for _, s := range sinks {
		if err := s.Write(g); err != nil {
			return fmt.Errorf("pipeline: write to %s: %w", s.Name(), err)
		}
	}
	return nil
}

// closeAll flushes and closes every sink, returning the first failure.
func closeAll(sinks []sink.Sink) error {
	var first error
	for _, s := range sinks {
		if err := s.Flush(); err != nil && first == nil {
			first = fmt.Errorf("pipeline: flush %s: %w", s.Name(), err)
		}
		if err := s.Close(); err != nil && first == nil {
			first = fmt.Errorf("pipeline: close %s: %w", s.Name(), err)
		}
	}
	return first
}

func sourceErr(s source.Source) error {
	if f, ok := s.(source.Failer); ok {
		if err := f.Err(); err != nil {
			return fmt.Errorf("pipeline: source %s: %w", s.Name(), err)
		}
	}
	return nil
}
