package edit

import (
	"fmt"
	"strings"

	"stchart/internal/parse"
	"stchart/internal/scan"
	"stchart/internal/source"
)

// InsertStepBetween splices a new step into the edge from -> to: the
// first transition of from targeting to is redirected at the new step,
// a declaration with value max+1 is appended to the constants, and a
// chain arm for the new step with an unconditional hop to to is added
// after from's segment.
func InsertStepBetween(text, fromName, toName, newName string) string {
	snap := source.New("insert", text)
	chart := parse.Parse(snap, parse.Options{})

	from, ok := chart.Step(fromName)
	if !ok {
		return text
	}
	if _, ok := chart.Step(toName); !ok {
		return text
	}
	if !scan.IsStepIdent(newName) || chart.Table.Has(newName) {
		return text
	}
	if from.Body.Empty() {
		return text
	}

	edgeIdx := -1
	for i, tr := range from.Transitions {
		if strings.EqualFold(tr.Target, toName) {
			edgeIdx = i
			break
		}
	}
	if edgeIdx < 0 {
		return text
	}

	redirect, ok := retargetEdit(snap, chart.StateVar, from.Transitions[edgeIdx], newName)
	if !ok {
		return text
	}

	// ELSE на глубине цепочки: ELSIF после него был бы некорректен
	if hasChainElse(snap, chart.StateVar, from.Body) {
		return text
	}

	// объявление после последней константы шага
	lastDecl := 0
	for _, s := range chart.Steps {
		if int(s.Decl.First) > lastDecl {
			lastDecl = int(s.Decl.First)
		}
	}
	declIndent := indentOf(snap.Line(lastDecl))
	decl := fmt.Sprintf("%s%s : INT := %d;", declIndent, newName, chart.Table.MaxValue()+1)

	hdrIndent := indentOf(snap.Line(int(from.Body.First)))
	arm := []string{
		fmt.Sprintf("%sELSIF %s = %s THEN", hdrIndent, chart.StateVar, newName),
		fmt.Sprintf("%s    %s := %s;", hdrIndent, chart.StateVar, toName),
	}

	edits := []lineEdit{
		redirect,
		{lastDecl + 1, lastDecl + 1, []string{decl}},
		{int(from.Body.End), int(from.Body.End), arm},
	}

	out, applied := applyLineEdits(snap, edits)
	if !applied {
		return text
	}
	return out
}

// hasChainElse reports whether the segment carries an ELSE branch at
// the chain's own depth.
func hasChainElse(snap *source.Snapshot, stateVar string, body source.LineRange) bool {
	m := scan.NewMatchers(stateVar)
	depth := 1
	for i := int(body.First) + 1; i < int(body.End); i++ {
		switch ln := m.Classify(snap.Line(i)); ln.Kind {
		case scan.KindIfOpen, scan.KindStepHeader:
			if !ln.Elsif {
				depth++
			}
		case scan.KindEndIf:
			depth--
		case scan.KindElse:
			if depth == 1 {
				return true
			}
		}
	}
	return false
}
