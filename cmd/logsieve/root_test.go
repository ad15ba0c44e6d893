package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/logsieve/internal/filter"
)

const sample = `2024-05-01 INFO server started
2024-05-01 DEBUG cache warm
2024-05-01 WARN slow query 812ms
2024-05-01 INFO request ok
2024-05-01 INFO request ok
2024-05-01 INFO request ok
2024-05-01 ERROR upstream timeout
    at proxy.forward
2024-05-01 INFO request ok
`

// isolate points the command at an empty config file so the host's files do not leak in.
func isolate(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	t.Setenv("LOGSIEVE_CONFIG", path)
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootFiltersStdin(t *testing.T) {
	isolate(t, "")

	out, _, err := execute(t, sample, "--level", "warn", "-C", "1")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"2024-05-01 DEBUG cache warm",
		"2024-05-01 WARN slow query 812ms",
		"2024-05-01 INFO request ok",
		"--",
		"2024-05-01 INFO request ok",
		"2024-05-01 ERROR upstream timeout",
		"    at proxy.forward",
		"2024-05-01 INFO request ok",
		"",
	}, "\n"), out)
}

func TestRootNumbersAndExcludes(t *testing.T) {
	isolate(t, "")

	out, _, err := execute(t, sample, "-e", "request", "-v", "ok", "-n")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = execute(t, sample, "-e", "timeout|slow", "-n", "--separator", "==")
	require.NoError(t, err)
	assert.Equal(t, "2:2024-05-01 WARN slow query 812ms\n==\n6:2024-05-01 ERROR upstream timeout\n", out)
}

func TestRootJSON(t *testing.T) {
	isolate(t, "")

	out, _, err := execute(t, sample, "-l", "error", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "ERROR", first["level"])
	assert.Equal(t, true, first["matched"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ERROR", second["level"], "continuation lines inherit the level")
}

func TestRootConfigFileAndFlagOverride(t *testing.T) {
	isolate(t, `
filter:
  min_level: error
output:
  separator: "~~"
`)

	out, _, err := execute(t, sample)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 ERROR upstream timeout\n    at proxy.forward\n", out)

	out, _, err = execute(t, sample, "--level", "warn")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 WARN slow query 812ms\n~~\n2024-05-01 ERROR upstream timeout\n    at proxy.forward\n", out)
}

func TestRootRejectsBadConfigBeforeReading(t *testing.T) {
	isolate(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"--level", "loud"}},
		{"bad pattern", []string{"-e", "("}},
		{"negative context", []string{"-C", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, sample, tt.args...)
			assert.ErrorIs(t, err, filter.ErrInvalidConfig)
		})
	}

	_, _, err := execute(t, sample, "--color", "sometimes")
	assert.Error(t, err)
}

func TestRootStatsAndOutputFile(t *testing.T) {
	isolate(t, "")
	path := filepath.Join(t.TempDir(), "out.log")

	out, errOut, err := execute(t, sample, "-l", "error", "--stats", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Total lines:   9")
	assert.Contains(t, errOut, "Matched lines: 2")

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestFileCommand(t *testing.T) {
	isolate(t, "")
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	out, _, err := execute(t, "", "file", path, "-l", "warn", "--tail", "3")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 ERROR upstream timeout\n    at proxy.forward\n", out)

	// The continuation line is read first here, so it has no level to inherit.
	out, _, err = execute(t, "", "file", path, "-l", "warn", "--tail", "2")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExecCommand(t *testing.T) {
	isolate(t, "")

	out, _, err := execute(t, "", "exec", "-l", "error", "--", "sh", "-c", "printf 'INFO a\\nERROR b\\n'")
	require.NoError(t, err)
	assert.Equal(t, "ERROR b\n", out)

	_, _, err = execute(t, "", "exec", "--", "sh", "-c", "exit 4")
	assert.Error(t, err)
}

func TestKubeRequiresTarget(t *testing.T) {
	isolate(t, "")

	_, _, err := execute(t, "", "kube")
	assert.Error(t, err)

	_, _, err = execute(t, "", "kube", "web-1", "--namespace", "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single namespace")

	_, _, err = execute(t, "", "kube", "--selector", "app=web", "--deployment", "web")
	assert.Error(t, err)
}
