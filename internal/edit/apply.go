package edit

import (
	"sort"
	"strings"

	"stchart/internal/source"
)

// lineEdit replaces the half-open line span [first, end) with repl.
// An empty repl deletes the span; first == end inserts before first.
type lineEdit struct {
	first int
	end   int
	repl  []string
}

// applyLineEdits splices edits into a copy of the snapshot's lines,
// working in descending start order so earlier spans stay valid.
// Overlapping or out-of-range edits abort the whole batch: mutators
// then hand the input text back unchanged.
func applyLineEdits(snap *source.Snapshot, edits []lineEdit) (string, bool) {
	if len(edits) == 0 {
		return snap.Content, false
	}

	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].first != edits[j].first {
			return edits[i].first > edits[j].first
		}
		return edits[i].end > edits[j].end
	})

	total := snap.LineCount()
	for k, e := range edits {
		if e.first < 0 || e.first > e.end || e.end > total {
			return snap.Content, false
		}
		if k+1 < len(edits) && edits[k+1].end > e.first {
			return snap.Content, false
		}
	}

	lines := snap.LinesCopy()
	for _, e := range edits {
		tail := append([]string(nil), lines[e.end:]...)
		lines = append(append(lines[:e.first:e.first], e.repl...), tail...)
	}
	return snap.Join(lines), true
}

// indentOf returns the leading whitespace of a line.
func indentOf(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
