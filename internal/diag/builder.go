package diag

import "stchart/internal/source"

func New(sev Severity, code Code, primary source.LineRange, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.LineRange, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.LineRange, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func NewInfo(code Code, primary source.LineRange, msg string) Diagnostic {
	return New(SevInfo, code, primary, msg)
}

func (d Diagnostic) WithStep(names ...string) Diagnostic {
	d.Steps = append(d.Steps, names...)
	return d
}

func (d Diagnostic) WithNote(r source.LineRange, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Range: r, Msg: msg})
	return d
}
