package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// ExecSource executes a command and streams its stdout/stderr as LogLine values.
// The container runtime, orchestrator and compose sources are ExecSources with
// prepared argument lists.
type ExecSource struct {
	name    string
	command string
	args    []string
	dir     string

	// parse optionally splits a producer timestamp off each line.
	parse func(string) (time.Time, string)

	mu  sync.Mutex
	err error
}

// NewExecSource creates a source that runs the given command with arguments.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{
		name:    fmt.Sprintf("exec:%s", command),
		command: command,
		args:    args,
	}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return s.name
}

// Err returns the command's failure once the channel is closed.
// Cancellation through ctx is not reported as a failure.
func (s *ExecSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start executes the command and returns a channel of log lines.
// The channel is closed when the command exits or ctx is cancelled.
func (s *ExecSource) Start(ctx context.Context) (<-chan entry.LogLine, error) {
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Dir = s.dir

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.command, err)
	}

	ch := make(chan entry.LogLine, channelSize)
	var wg sync.WaitGroup
	wg.Add(2)

	go s.readStream(ctx, "stdout", stdoutPipe, ch, &wg)
	go s.readStream(ctx, "stderr", stderrPipe, ch, &wg)

	go func() {
		wg.Wait()
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.setErr(fmt.Errorf("%s: %w", s.name, err))
		}
		close(ch)
	}()

	return ch, nil
}

// readStream reads lines from a pipe and sends them to the channel.
func (s *ExecSource) readStream(ctx context.Context, stream string, r io.Reader, ch chan<- entry.LogLine, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)

	for scanner.Scan() {
		ts, text := time.Now(), scanner.Text()
		if s.parse != nil {
			ts, text = s.parse(text)
		}
		if !send(ctx, ch, entry.LogLine{Timestamp: ts, Stream: stream, Source: s.name, Text: text}) {
			// Keep the pipe drained so the command can exit.
			_, _ = io.Copy(io.Discard, r)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		s.setErr(fmt.Errorf("%s: read %s: %w", s.name, stream, err))
		_, _ = io.Copy(io.Discard, r)
	}
}

func (s *ExecSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
