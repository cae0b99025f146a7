package diag

// Severity ranks a finding. The numeric order matters: the bag sorts
// errors first and HasErrors compares against SevError.
type Severity uint8

const (
	// SevInfo marks advisory findings that never fail a check run.
	SevInfo Severity = iota
	// SevWarning marks suspicious structure the chart survives.
	SevWarning
	// SevError marks violations of the state-machine rules.
	SevError
)

// String returns the upper-case label used in every output format.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
