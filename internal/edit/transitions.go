package edit

import (
	"fmt"
	"regexp"
	"strings"

	"stchart/internal/parse"
	"stchart/internal/sfc"
	"stchart/internal/source"
)

var priorityMarkerRe = regexp.MustCompile(`\s*\(\*\s*(?i:PRI(?:ORITY)?)\s*:\s*\d+\s*\*\)`)

// withPriorityMarker rewrites the line's priority marker to pri,
// appending a fresh marker when the line carries none.
func withPriorityMarker(line string, pri int) string {
	marker := fmt.Sprintf("(* PRI: %d *)", pri)
	if priorityMarkerRe.MatchString(line) {
		return priorityMarkerRe.ReplaceAllString(line, " "+marker)
	}
	return line + " " + marker
}

// Retarget points the idx-th transition of a step at a different
// declared step. The guard and everything around the assignment stay
// untouched.
func Retarget(text, stepName string, idx int, newTarget string) string {
	snap := source.New("retarget", text)
	chart := parse.Parse(snap, parse.Options{})

	step, ok := chart.Step(stepName)
	if !ok || idx < 0 || idx >= len(step.Transitions) {
		return text
	}
	if !chart.Table.Has(newTarget) {
		return text
	}
	tr := step.Transitions[idx]
	if strings.EqualFold(tr.Target, newTarget) {
		return text
	}

	edit, ok := retargetEdit(snap, chart.StateVar, tr, newTarget)
	if !ok {
		return text
	}
	out, applied := applyLineEdits(snap, []lineEdit{edit})
	if !applied {
		return text
	}
	return out
}

// retargetEdit finds the state-variable assignment inside the
// transition's span and rewrites its target.
func retargetEdit(snap *source.Snapshot, stateVar string, tr sfc.Transition, newTarget string) (lineEdit, bool) {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)(%s\s*:=\s*)%s\b`,
		regexp.QuoteMeta(stateVar), regexp.QuoteMeta(tr.Target)))
	for i := int(tr.Range.First); i < int(tr.Range.End); i++ {
		line := snap.Line(i)
		if !re.MatchString(line) {
			continue
		}
		return lineEdit{i, i + 1, []string{re.ReplaceAllString(line, "${1}"+newTarget)}}, true
	}
	return lineEdit{}, false
}

// SetPriority attaches an explicit priority marker to the idx-th
// transition of a step, replacing an existing marker in place.
func SetPriority(text, stepName string, idx, pri int) string {
	snap := source.New("setpri", text)
	chart := parse.Parse(snap, parse.Options{})

	step, ok := chart.Step(stepName)
	if !ok || idx < 0 || idx >= len(step.Transitions) || pri <= 0 {
		return text
	}
	tr := step.Transitions[idx]
	if tr.Explicit && tr.Priority == pri {
		return text
	}

	guard := int(tr.Range.First)
	out, applied := applyLineEdits(snap, []lineEdit{
		{guard, guard + 1, []string{withPriorityMarker(snap.Line(guard), pri)}},
	})
	if !applied {
		return text
	}
	return out
}

// ReorderTransitions rewrites a step's transitions in the given order
// of current indices. The blocks are lifted out bottom-up and placed
// back, in the new order, where the first one stood. Order must be a
// permutation of the current indices.
func ReorderTransitions(text, stepName string, order []int) string {
	snap := source.New("reorder", text)
	chart := parse.Parse(snap, parse.Options{})

	step, ok := chart.Step(stepName)
	if !ok || len(order) != len(step.Transitions) || len(order) == 0 {
		return text
	}
	seen := make(map[int]bool, len(order))
	identity := true
	for i, idx := range order {
		if idx < 0 || idx >= len(step.Transitions) || seen[idx] {
			return text
		}
		seen[idx] = true
		if idx != i {
			identity = false
		}
	}
	if identity {
		return text
	}

	blocks := make([][]string, len(step.Transitions))
	for i, tr := range step.Transitions {
		for j := int(tr.Range.First); j < int(tr.Range.End); j++ {
			blocks[i] = append(blocks[i], snap.Line(j))
		}
	}

	var repl []string
	for _, idx := range order {
		repl = append(repl, blocks[idx]...)
	}

	first := step.Transitions[0]
	edits := []lineEdit{{int(first.Range.First), int(first.Range.End), repl}}
	for _, tr := range step.Transitions[1:] {
		edits = append(edits, lineEdit{int(tr.Range.First), int(tr.Range.End), nil})
	}

	out, applied := applyLineEdits(snap, edits)
	if !applied {
		return text
	}
	return out
}

// NormalizePriorities rewrites every transition of a step with explicit
// markers stride, 2*stride, ... in source order, so after the rewrite
// the firing order matches the order the transitions appear in.
func NormalizePriorities(text, stepName string, stride int) string {
	if stride <= 0 {
		stride = 10
	}
	snap := source.New("normalize", text)
	chart := parse.Parse(snap, parse.Options{})

	step, ok := chart.Step(stepName)
	if !ok || len(step.Transitions) == 0 {
		return text
	}

	var edits []lineEdit
	for i, tr := range step.Transitions {
		want := (i + 1) * stride
		if tr.Explicit && tr.Priority == want {
			continue
		}
		guard := int(tr.Range.First)
		edits = append(edits, lineEdit{guard, guard + 1, []string{withPriorityMarker(snap.Line(guard), want)}})
	}
	if len(edits) == 0 {
		return text
	}

	out, applied := applyLineEdits(snap, edits)
	if !applied {
		return text
	}
	return out
}
