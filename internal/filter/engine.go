package filter

import (
	"fmt"

	"github.com/Geun-Oh/logsieve/internal/entry"
)

// Engine runs classification, the predicate chain and context assembly over one stream.
// An Engine is single-use and must not be shared between goroutines; build one per run.
type Engine struct {
	spec       *Spec
	classifier *Classifier
	chain      *Chain
	assembler  *Assembler

	next    int
	matches int
}

// NewEngine validates spec and prepares a fresh run.
func NewEngine(spec *Spec) (*Engine, error) {
	if spec == nil {
		return nil, fmt.Errorf("filter: spec is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		spec:       spec,
		classifier: NewClassifier(spec.Lexicon),
		chain:      spec.Chain(),
		assembler:  NewAssembler(spec.ContextLines),
	}, nil
}

// Feed processes the next line of text.
func (e *Engine) Feed(text string) (entry.Group, bool) {
	return e.FeedLine(entry.LogLine{Text: text})
}

// FeedLine processes the next line, keeping its producer metadata.
// The line's Index is replaced by its position in this run.
func (e *Engine) FeedLine(l entry.LogLine) (entry.Group, bool) {
	l.Index = e.next
	e.next++

	le := entry.LogEntry{LogLine: l, Level: e.classifier.Classify(l.Text)}
	le.Matched = e.chain.Match(&le)
	if le.Matched {
		e.matches++
	}
	return e.assembler.Push(le)
}

// Close ends the run and returns the last group, if any.
func (e *Engine) Close() (entry.Group, bool) {
	return e.assembler.Flush()
}

// Lines returns the number of lines fed so far.
func (e *Engine) Lines() int {
	return e.next
}

// Matches returns the number of lines that passed the predicate so far.
func (e *Engine) Matches() int {
	return e.matches
}

// Describe returns a human-readable description of the predicate.
func (e *Engine) Describe() string {
	return fmt.Sprintf("%s context=%d", e.chain.Name(), e.spec.ContextLines)
}

// Apply filters a complete stream of lines and returns the emitted groups in order.
// A run that keeps nothing returns no groups and no error.
func Apply(spec *Spec, lines []string) ([]entry.Group, error) {
	if spec == nil {
		return nil, fmt.Errorf("filter: spec is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	lx := spec.Lexicon
	if lx == nil {
		lx = DefaultLexicon()
	}
	levels := lx.Classify(lines)
	chain := spec.Chain()

	entries := make([]entry.LogEntry, len(lines))
	for i, text := range lines {
		entries[i] = entry.LogEntry{
			LogLine: entry.LogLine{Index: i, Text: text},
			Level:   levels[i],
		}
		entries[i].Matched = chain.Match(&entries[i])
	}
	return Assemble(entries, spec.ContextLines), nil
}
