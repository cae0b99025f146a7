package edit

import (
	"regexp"
	"strings"

	"stchart/internal/parse"
	"stchart/internal/scan"
	"stchart/internal/source"
)

// RenameStep renames a step constant everywhere it appears: the
// declaration, chain headers and assignments, whatever their spelling.
// The rename is refused (input returned unchanged) when oldName is not
// a known step, newName does not follow the step naming convention, or
// newName is already declared.
func RenameStep(text, oldName, newName string) string {
	snap := source.New("rename", text)
	chart := parse.Parse(snap, parse.Options{})

	if _, ok := chart.Step(oldName); !ok {
		return text
	}
	if !scan.IsStepIdent(newName) || chart.Table.Has(newName) || strings.EqualFold(oldName, newName) {
		return text
	}

	// идентификаторы диалекта регистронезависимы
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(oldName) + `\b`)
	var edits []lineEdit
	for i := 0; i < snap.LineCount(); i++ {
		line := snap.Line(i)
		if !re.MatchString(line) {
			continue
		}
		edits = append(edits, lineEdit{i, i + 1, []string{re.ReplaceAllString(line, newName)}})
	}

	out, ok := applyLineEdits(snap, edits)
	if !ok {
		return text
	}
	return out
}
