package source

import (
	"fmt"
	"strconv"
	"time"
)

// DockerOptions selects which container logs `docker logs` returns.
type DockerOptions struct {
	Container string
	Host      string // remote daemon, e.g. ssh://user@remote or tcp://host:2375
	Tail      int    // lines from the end; negative means all
	Since     string // e.g. 10m, 1h, or a timestamp
	Follow    bool
}

// DockerArgs builds the `docker` argument list for opts.
func DockerArgs(opts DockerOptions) []string {
	var args []string
	if opts.Host != "" {
		args = append(args, "--host", opts.Host)
	}
	args = append(args, "logs")
	if opts.Tail >= 0 {
		args = append(args, "--tail", strconv.Itoa(opts.Tail))
	}
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	if opts.Follow {
		args = append(args, "--follow")
	}
	return append(args, "--timestamps", opts.Container)
}

// NewDockerSource creates a source that reads a container's logs via `docker logs`.
// Docker forwards the container's stdout and stderr on the matching pipes.
func NewDockerSource(opts DockerOptions) *ExecSource {
	s := NewExecSource("docker", DockerArgs(opts))
	s.name = fmt.Sprintf("docker:%s", opts.Container)
	s.parse = parseDockerTimestamp
	return s
}

// parseDockerTimestamp extracts the timestamp from a Docker log line.
// Docker --timestamps format: "2025-01-26T13:32:19.123456789Z message..."
func parseDockerTimestamp(line string) (time.Time, string) {
	sp := -1
	for i := 0; i < len(line) && i < 40; i++ {
		if line[i] == ' ' {
			sp = i
			break
		}
	}
	if sp < 0 {
		if ts, err := time.Parse(time.RFC3339Nano, line); err == nil {
			return ts, ""
		}
		return time.Now(), line
	}

	ts, err := time.Parse(time.RFC3339Nano, line[:sp])
	if err != nil {
		return time.Now(), line
	}
	return ts, line[sp+1:]
}
