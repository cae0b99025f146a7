package sfc

import (
	"github.com/google/uuid"

	"stchart/internal/source"
)

// MisplacedInit is a non-step identifier initialized inside the
// variable block; the analyzer turns these into diagnostics.
type MisplacedInit struct {
	Name  string
	Range source.LineRange
}

// UnknownRef is an assignment targeting a step-convention identifier
// that the constant table does not know.
type UnknownRef struct {
	Name  string
	Range source.LineRange
}

// Chart is the recovered step/transition/action graph of one snapshot.
// It is rebuilt from scratch on every text change; nothing is
// incremental and nothing here outlives the snapshot it came from.
type Chart struct {
	// Snapshot identifies the text this chart was derived from. Every
	// range inside the chart is bound to the same snapshot.
	Snapshot uuid.UUID
	StateVar string
	Table    *ConstantTable
	Steps    []*Step

	// Overflows lists block scans that exceeded the forward bound and
	// fell through to action classification.
	Overflows []source.LineRange
	// MisplacedInits lists initialized non-step declarations.
	MisplacedInits []MisplacedInit
	// UnknownRefs lists assignments to undeclared step identifiers.
	UnknownRefs []UnknownRef

	index map[string]*Step
}

func NewChart(snapshot uuid.UUID, stateVar string) *Chart {
	return &Chart{
		Snapshot: snapshot,
		StateVar: stateVar,
		Table:    NewConstantTable(),
		index:    make(map[string]*Step),
	}
}

// AddStep registers a step under its name. Returns false if the name is
// already taken, in any spelling (step identifiers are unique per parse
// and case-insensitive).
func (c *Chart) AddStep(s *Step) bool {
	if _, exists := c.index[foldIdent(s.Name)]; exists {
		return false
	}
	c.Steps = append(c.Steps, s)
	c.index[foldIdent(s.Name)] = s
	return true
}

// Step looks a step up by identifier, ignoring case.
func (c *Chart) Step(name string) (*Step, bool) {
	s, ok := c.index[foldIdent(name)]
	return s, ok
}

// InitialSteps returns all steps marked initial, in declaration order.
func (c *Chart) InitialSteps() []*Step {
	var out []*Step
	for _, s := range c.Steps {
		if s.Kind == StepInitial {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether the chart recovered no steps at all.
func (c *Chart) Empty() bool {
	return len(c.Steps) == 0
}

// TransitionCount returns the number of edges across all steps.
func (c *Chart) TransitionCount() int {
	n := 0
	for _, s := range c.Steps {
		n += len(s.Transitions)
	}
	return n
}
