package diag

import (
	"stchart/internal/source"
)

type Note struct {
	Range source.LineRange
	Msg   string
}

// Diagnostic is one structured finding about a recovered chart.
// Steps lists the step identifiers the finding concerns, in the order
// they were named by the check.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.LineRange
	Steps    []string
	Notes    []Note
}
