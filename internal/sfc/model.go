package sfc

import (
	"stchart/internal/source"
)

// StepKind distinguishes the distinguished starting step from the rest.
type StepKind uint8

const (
	StepOrdinary StepKind = iota
	StepInitial
)

func (k StepKind) String() string {
	if k == StepInitial {
		return "initial"
	}
	return "ordinary"
}

// Action is a unit of behavior active while a step is active.
type Action struct {
	Qualifier Qualifier
	// Duration is the raw duration text from the marker (T#500ms etc.).
	// Empty when the marker carried none; analysis flags time-bearing
	// qualifiers without one.
	Duration string
	Body     string
	Range    source.LineRange
}

// Transition is a guarded edge to another step.
type Transition struct {
	Target   string
	Guard    string
	Priority int
	// Explicit is set when the priority came from an inline marker
	// rather than encounter order.
	Explicit bool
	Range    source.LineRange
}

// Step is one named state of the machine.
type Step struct {
	Name  string
	Label string
	Value int64
	Kind  StepKind
	// Decl is the declaration line inside the variable block.
	Decl source.LineRange
	// Body spans the header line through the line before the next
	// header (or EOF); empty for declared-but-bodiless steps.
	Body        source.LineRange
	Actions     []Action
	Transitions []Transition
	// MaxDepth is the deepest conditional nesting observed inside the
	// step body, relative to the step's own chain depth.
	MaxDepth int
}
