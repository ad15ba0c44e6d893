package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/filter"
	"github.com/Geun-Oh/logsieve/internal/monitor"
	"github.com/Geun-Oh/logsieve/internal/sink"
	"github.com/Geun-Oh/logsieve/internal/source"
)

const input = `[INFO] boot
[ERROR] timeout on db connection
  at db.Dial()
[INFO] retry
[INFO] ok
[INFO] ok
[INFO] ok
[WARN] timeout on health check
[INFO] done
`

type recordingSink struct {
	groups   []entry.Group
	closed   bool
	writeErr error
}

func (s *recordingSink) Write(g *entry.Group) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.groups = append(s.groups, *g)
	return nil
}
func (s *recordingSink) Flush() error { return nil }
func (s *recordingSink) Close() error { s.closed = true; return nil }
func (s *recordingSink) Name() string { return "recording" }

type neverStarted struct{ started bool }

func (s *neverStarted) Start(context.Context) (<-chan entry.LogLine, error) {
	s.started = true
	ch := make(chan entry.LogLine)
	close(ch)
	return ch, nil
}
func (s *neverStarted) Name() string { return "never" }

func mustSpec(t *testing.T, opts filter.Options) *filter.Spec {
	t.Helper()
	spec, err := filter.NewSpec(opts)
	require.NoError(t, err)
	return spec
}

func TestRun(t *testing.T) {
	rec := &recordingSink{}
	var text bytes.Buffer
	stats := monitor.NewStats()

	err := Run(context.Background(), &Config{
		Source: source.NewStdinSource(strings.NewReader(input), 0),
		Spec:   mustSpec(t, filter.Options{Pattern: "timeout", ContextLines: 1}),
		Sinks:  []sink.Sink{rec, sink.NewTerminalSink(&text, sink.TerminalOptions{Separator: "--"})},
		Stats:  stats,
	})
	require.NoError(t, err)

	require.Len(t, rec.groups, 2)
	assert.Equal(t, 0, rec.groups[0].Start)
	assert.Equal(t, 2, rec.groups[0].End)
	assert.Equal(t, 6, rec.groups[1].Start)
	assert.Equal(t, 8, rec.groups[1].End)
	assert.True(t, rec.closed)

	assert.Equal(t, "[INFO] boot\n[ERROR] timeout on db connection\n  at db.Dial()\n--\n"+
		"[INFO] ok\n[WARN] timeout on health check\n[INFO] done\n", text.String())

	assert.Equal(t, uint64(9), stats.Total())
	assert.Equal(t, uint64(2), stats.Matched())
	assert.Equal(t, uint64(6), stats.Emitted())
	assert.Equal(t, uint64(2), stats.Groups())
}

func TestRunNoMatches(t *testing.T) {
	rec := &recordingSink{}
	err := Run(context.Background(), &Config{
		Source: source.NewStdinSource(strings.NewReader(input), 0),
		Spec:   mustSpec(t, filter.Options{MinLevel: "fatal"}),
		Sinks:  []sink.Sink{rec},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.groups)
	assert.True(t, rec.closed)
}

func TestRunRejectsConfigBeforeStart(t *testing.T) {
	src := &neverStarted{}
	err := Run(context.Background(), &Config{
		Source: src,
		Spec:   &filter.Spec{ContextLines: -1},
		Sinks:  []sink.Sink{&recordingSink{}},
	})
	assert.ErrorIs(t, err, filter.ErrInvalidConfig)
	assert.False(t, src.started)
}

func TestRunRequiresSourceAndSink(t *testing.T) {
	spec := mustSpec(t, filter.Options{})
	assert.Error(t, Run(context.Background(), &Config{Spec: spec, Sinks: []sink.Sink{&recordingSink{}}}))
	assert.Error(t, Run(context.Background(), &Config{Spec: spec, Source: &neverStarted{}}))
}

func TestRunReportsSinkFailure(t *testing.T) {
	boom := errors.New("disk full")
	err := Run(context.Background(), &Config{
		Source: source.NewStdinSource(strings.NewReader(input), 0),
		Spec:   mustSpec(t, filter.Options{}),
		Sinks:  []sink.Sink{&recordingSink{writeErr: boom}},
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunReportsProducerFailure(t *testing.T) {
	rec := &recordingSink{}
	err := Run(context.Background(), &Config{
		Source: source.NewExecSource("sh", []string{"-c", "echo '[ERROR] last words'; exit 2"}),
		Spec:   mustSpec(t, filter.Options{MinLevel: "error"}),
		Sinks:  []sink.Sink{rec},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec:sh")

	// Output produced before the failure is still delivered.
	require.Len(t, rec.groups, 1)
	assert.Equal(t, "[ERROR] last words", rec.groups[0].Lines[0].Text)
}
