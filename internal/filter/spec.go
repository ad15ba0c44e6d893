package filter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// ErrInvalidConfig matches every configuration error returned by NewSpec and Validate.
var ErrInvalidConfig = errors.New("invalid filter configuration")

// ConfigError reports the option that failed validation.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Options is the caller-facing filter configuration. Empty strings mean "not set".
type Options struct {
	MinLevel       string
	Pattern        string
	ExcludePattern string
	CaseSensitive  bool
	FixedStrings   bool // treat Pattern and ExcludePattern as literal strings
	ContextLines   int
	Lexicon        *Lexicon // nil uses DefaultLexicon
}

// Spec is a validated filter configuration for one or more runs.
// A zero MinLevel and nil matchers impose no constraint.
type Spec struct {
	MinLevel     entry.Level
	Include      Matcher
	Exclude      Matcher
	ContextLines int
	Lexicon      *Lexicon
}

// NewSpec validates opts and compiles its patterns. Any failure is a *ConfigError.
func NewSpec(opts Options) (*Spec, error) {
	spec := &Spec{
		ContextLines: opts.ContextLines,
		Lexicon:      opts.Lexicon,
	}

	if opts.MinLevel != "" {
		level, err := entry.ParseLevel(opts.MinLevel)
		if err != nil {
			return nil, &ConfigError{Field: "min_level", Value: opts.MinLevel, Err: err}
		}
		spec.MinLevel = level
	}

	var err error
	if opts.Pattern != "" {
		if spec.Include, err = compile(opts.Pattern, opts); err != nil {
			return nil, &ConfigError{Field: "pattern", Value: opts.Pattern, Err: err}
		}
	}
	if opts.ExcludePattern != "" {
		if spec.Exclude, err = compile(opts.ExcludePattern, opts); err != nil {
			return nil, &ConfigError{Field: "exclude_pattern", Value: opts.ExcludePattern, Err: err}
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func compile(pattern string, opts Options) (Matcher, error) {
	if opts.FixedStrings {
		return NewLiteralMatcher(pattern, opts.CaseSensitive), nil
	}
	return CompilePattern(pattern, opts.CaseSensitive)
}

// Validate checks a Spec built by hand.
func (s *Spec) Validate() error {
	if s.ContextLines < 0 {
		return &ConfigError{
			Field: "context_lines",
			Value: strconv.Itoa(s.ContextLines),
			Err:   errors.New("must be zero or greater"),
		}
	}
	if s.MinLevel < entry.LevelUnknown || s.MinLevel > entry.LevelFatal {
		return &ConfigError{Field: "min_level", Value: strconv.Itoa(int(s.MinLevel)), Err: entry.ErrUnknownLevel}
	}
	return nil
}

// Chain builds the per-line predicate for the spec.
func (s *Spec) Chain() *Chain {
	c := NewChain()
	if s.MinLevel != entry.LevelUnknown {
		c.Add(NewLevelFilter(s.MinLevel))
	}
	if s.Include != nil {
		c.Add(NewIncludeFilter(s.Include))
	}
	if s.Exclude != nil {
		c.Add(NewExcludeFilter(s.Exclude))
	}
	return c
}
