package edit

import (
	"fmt"
	"regexp"

	"stchart/internal/parse"
	"stchart/internal/scan"
	"stchart/internal/source"
)

// RemoveOptions tunes RemoveStep.
type RemoveOptions struct {
	// StripReferences also deletes lines in other steps that assign the
	// removed step to the state variable, so a re-parse of the result
	// holds no trace of the name.
	StripReferences bool
}

var elsifKeywordRe = regexp.MustCompile(`(?i)\bELSIF\b`)

// RemoveStep deletes a step's declaration and its chain segment.
// Removing the first segment of a chain promotes the following ELSIF
// arm to IF; removing the only segment drops the chain's END_IF too.
func RemoveStep(text, name string, opts RemoveOptions) string {
	snap := source.New("remove", text)
	chart := parse.Parse(snap, parse.Options{})

	step, ok := chart.Step(name)
	if !ok {
		return text
	}

	m := scan.NewMatchers(chart.StateVar)
	var edits []lineEdit

	if snap.Owns(step.Decl) && !step.Decl.Empty() {
		edits = append(edits, lineEdit{int(step.Decl.First), int(step.Decl.End), nil})
	}

	if !step.Body.Empty() {
		first, end := int(step.Body.First), int(step.Body.End)
		edits = append(edits, lineEdit{first, end, nil})

		hdr := m.Classify(snap.Line(first))
		if hdr.Kind == scan.KindStepHeader && !hdr.Elsif && end < snap.LineCount() {
			next := m.Classify(snap.Line(end))
			switch {
			case next.Elsif && (next.Kind == scan.KindStepHeader || next.Kind == scan.KindIfOpen):
				// следующая ветка открывает цепочку
				promoted := elsifKeywordRe.ReplaceAllString(snap.Line(end), "IF")
				edits = append(edits, lineEdit{end, end + 1, []string{promoted}})
			case next.Kind == scan.KindEndIf:
				edits = append(edits, lineEdit{end, end + 1, nil})
			}
		}
	}

	if opts.StripReferences {
		edits = append(edits, stripReferenceEdits(snap, chart.StateVar, name, step.Body)...)
	}

	out, applied := applyLineEdits(snap, edits)
	if !applied {
		return text
	}
	return out
}

// stripReferenceEdits deletes every line assigning the removed step to
// the state variable, skipping lines inside the removed segment.
func stripReferenceEdits(snap *source.Snapshot, stateVar, name string, body source.LineRange) []lineEdit {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)%s\s*:=\s*%s\b`,
		regexp.QuoteMeta(stateVar), regexp.QuoteMeta(name)))

	var edits []lineEdit
	for i := 0; i < snap.LineCount(); i++ {
		if i >= int(body.First) && i < int(body.End) {
			continue
		}
		if !re.MatchString(snap.Line(i)) {
			continue
		}
		edits = append(edits, lineEdit{i, i + 1, nil})
	}
	return edits
}
