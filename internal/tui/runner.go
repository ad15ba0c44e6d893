package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/filter"
	"github.com/Geun-Oh/logsieve/internal/logging"
	"github.com/Geun-Oh/logsieve/internal/monitor"
	"github.com/Geun-Oh/logsieve/internal/pipeline"
	"github.com/Geun-Oh/logsieve/internal/source"
)

// RunConfig holds configuration for the TUI pipeline.
type RunConfig struct {
	Source    source.Source
	Spec      *filter.Spec
	Stats     *monitor.Stats
	Separator string
	Logger    *zap.Logger
}

// Run starts the group viewer on a live source.
// This function blocks until the user quits.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg.Source == nil {
		return fmt.Errorf("tui: source is required")
	}
	engine, err := filter.NewEngine(cfg.Spec)
	if err != nil {
		return err
	}
	stats := cfg.Stats
	if stats == nil {
		stats = monitor.NewStats()
	}
	log := logging.OrNop(cfg.Logger)

	// The source must stop when the TUI exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(stats, cfg.Source.Name(), engine.Describe(), cfg.Separator)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ch, err := cfg.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("tui: start source: %w", err)
	}

	var wg sync.WaitGroup
	var runErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = pipeline.Drain(ctx, ch, engine, stats, func(g *entry.Group) error {
			program.Send(GroupMsg(*g))
			return nil
		}, func() error {
			if f, ok := cfg.Source.(source.Failer); ok {
				return f.Err()
			}
			return nil
		})
		if runErr != nil {
			log.Warn("source failed", zap.String("source", cfg.Source.Name()), zap.Error(runErr))
		}
		program.Send(DoneMsg{Err: runErr})
	}()

	_, err = program.Run()

	cancel()
	wg.Wait()

	if err != nil {
		return err
	}
	return runErr
}
