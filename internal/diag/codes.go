package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Сканер и таблица констант
	ScanInfo          Code = 1000
	ScanBoundExceeded Code = 1001
	ScanMisplacedInit Code = 1002

	// Анализ графа
	AnaInfo               Code = 3000
	AnaNoInitialStep      Code = 3001
	AnaMultipleInitial    Code = 3002
	AnaUnreachableStep    Code = 3003
	AnaDeadlockStep       Code = 3004
	AnaNestingTooDeep     Code = 3005
	AnaDuplicatePriority  Code = 3006
	AnaImplicitPriorities Code = 3007
	AnaUnknownStepRef     Code = 3008
	AnaMissingDuration    Code = 3009

	// Ошибки I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown issue",
	ScanInfo:              "Scanner information",
	ScanBoundExceeded:     "Transition block scan exceeded its line bound",
	ScanMisplacedInit:     "Non-step initialization inside the variable block",
	AnaInfo:               "Analysis information",
	AnaNoInitialStep:      "No initial step",
	AnaMultipleInitial:    "Multiple initial steps",
	AnaUnreachableStep:    "Step is unreachable from the initial step",
	AnaDeadlockStep:       "Step has no outgoing transitions",
	AnaNestingTooDeep:     "Conditional nesting too deep",
	AnaDuplicatePriority:  "Duplicate transition priorities",
	AnaImplicitPriorities: "Transitions rely on implicit priorities",
	AnaUnknownStepRef:     "Reference to an undeclared step",
	AnaMissingDuration:    "Time-bearing qualifier without a duration",
	IOLoadFileError:       "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANA%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
