package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

func TestNewSpec(t *testing.T) {
	spec, err := NewSpec(Options{
		MinLevel:       "WARN",
		Pattern:        "timeout",
		ExcludePattern: "health",
		ContextLines:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, entry.LevelWarn, spec.MinLevel)
	assert.NotNil(t, spec.Include)
	assert.NotNil(t, spec.Exclude)
	assert.Equal(t, 2, spec.ContextLines)
	assert.Equal(t, "level>=WARN AND include:(?i)timeout AND exclude:(?i)health", spec.Chain().Name())
}

func TestNewSpecEmpty(t *testing.T) {
	spec, err := NewSpec(Options{})
	require.NoError(t, err)

	assert.Equal(t, entry.LevelUnknown, spec.MinLevel)
	assert.Nil(t, spec.Include)
	assert.Nil(t, spec.Exclude)
	assert.Equal(t, "all", spec.Chain().Name())
}

func TestNewSpecErrors(t *testing.T) {
	testCases := []struct {
		name  string
		opts  Options
		field string
	}{
		{"negative context", Options{ContextLines: -1}, "context_lines"},
		{"bad include", Options{Pattern: "(unclosed"}, "pattern"},
		{"bad exclude", Options{ExcludePattern: "[a-"}, "exclude_pattern"},
		{"unknown level", Options{MinLevel: "verbose"}, "min_level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NewSpec(tc.opts)
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestNewSpecUnknownLevelUnwraps(t *testing.T) {
	_, err := NewSpec(Options{MinLevel: "loud"})
	assert.ErrorIs(t, err, entry.ErrUnknownLevel)
	assert.Contains(t, err.Error(), `invalid min_level "loud"`)
}

func TestFixedStringsSkipRegexCompilation(t *testing.T) {
	spec, err := NewSpec(Options{Pattern: "(unclosed", FixedStrings: true})
	require.NoError(t, err)
	assert.True(t, spec.Include.MatchString("call (unclosed paren"))
}

func TestSpecValidate(t *testing.T) {
	assert.NoError(t, (&Spec{}).Validate())
	assert.ErrorIs(t, (&Spec{ContextLines: -3}).Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, (&Spec{MinLevel: entry.Level(12)}).Validate(), ErrInvalidConfig)
}
