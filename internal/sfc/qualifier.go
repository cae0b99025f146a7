package sfc

import "strings"

// Qualifier describes the activation/hold semantics of an action,
// following the SFC action qualifier set.
type Qualifier uint8

const (
	// QualNonStored is active only while the step is active (N).
	QualNonStored Qualifier = iota
	QualSet                 // S
	QualReset               // R
	QualTimeLimited         // L
	QualTimeDelayed         // D
	QualPulse               // P
	QualPulseRising         // P1
	QualPulseFalling        // P0
	QualDelayedStored       // DS
	QualStoredLimited       // SL
)

var qualifierCodes = map[string]Qualifier{
	"N":  QualNonStored,
	"S":  QualSet,
	"R":  QualReset,
	"L":  QualTimeLimited,
	"D":  QualTimeDelayed,
	"P":  QualPulse,
	"P1": QualPulseRising,
	"P0": QualPulseFalling,
	"DS": QualDelayedStored,
	"SL": QualStoredLimited,
}

// ParseQualifier maps a marker code to a qualifier, case-insensitively.
func ParseQualifier(code string) (Qualifier, bool) {
	q, ok := qualifierCodes[strings.ToUpper(strings.TrimSpace(code))]
	return q, ok
}

func (q Qualifier) String() string {
	switch q {
	case QualNonStored:
		return "N"
	case QualSet:
		return "S"
	case QualReset:
		return "R"
	case QualTimeLimited:
		return "L"
	case QualTimeDelayed:
		return "D"
	case QualPulse:
		return "P"
	case QualPulseRising:
		return "P1"
	case QualPulseFalling:
		return "P0"
	case QualDelayedStored:
		return "DS"
	case QualStoredLimited:
		return "SL"
	}
	return "N"
}

// NeedsDuration reports whether the qualifier carries a time component.
func (q Qualifier) NeedsDuration() bool {
	switch q {
	case QualTimeLimited, QualTimeDelayed, QualDelayedStored, QualStoredLimited:
		return true
	}
	return false
}
