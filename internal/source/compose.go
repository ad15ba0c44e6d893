package source

import (
	"strconv"
)

// ComposeOptions selects which service logs `docker compose logs` returns.
type ComposeOptions struct {
	Service    string // empty for every service
	ProjectDir string // directory holding the compose file
	Tail       int    // lines from the end; negative means all
	Since      string
	Follow     bool
}

// ComposeArgs builds the `docker` argument list for opts.
// Service prefixes are kept only when following, where lines of several services interleave.
func ComposeArgs(opts ComposeOptions) []string {
	args := []string{"compose", "logs"}
	if opts.Tail >= 0 {
		args = append(args, "--tail", strconv.Itoa(opts.Tail))
	}
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	if opts.Follow {
		args = append(args, "--follow")
	} else {
		args = append(args, "--no-log-prefix")
	}
	if opts.Service != "" {
		args = append(args, opts.Service)
	}
	return args
}

// NewComposeSource creates a source that reads service logs via `docker compose logs`.
func NewComposeSource(opts ComposeOptions) *ExecSource {
	s := NewExecSource("docker", ComposeArgs(opts))
	s.name = "compose"
	if opts.Service != "" {
		s.name += ":" + opts.Service
	}
	s.dir = opts.ProjectDir
	return s
}
