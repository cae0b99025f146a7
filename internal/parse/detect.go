package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stchart/internal/scan"
	"stchart/internal/sfc"
	"stchart/internal/source"
)

// DefaultStateVar is the conventional fallback when no state-holding
// variable can be detected in the text.
const DefaultStateVar = "state"

var (
	cmpVarRe = regexp.MustCompile(`(?i)\b([A-Za-z_][A-Za-z0-9_]*)\s*=\s*STATE_[A-Za-z0-9_]+\b`)
	asgVarRe = regexp.MustCompile(`(?i)\b([A-Za-z_][A-Za-z0-9_]*)\s*:=\s*STATE_[A-Za-z0-9_]+\b`)
)

// DetectStateVar finds the state-holding variable: the first identifier
// compared against a step constant, else the first one assigned a step
// constant, else DefaultStateVar. Best-effort; ambiguity takes the
// first match and is never an error.
func DetectStateVar(snap *source.Snapshot) string {
	for i := 0; i < snap.LineCount(); i++ {
		if sub := cmpVarRe.FindStringSubmatch(snap.Line(i)); sub != nil {
			if !scan.IsStepIdent(sub[1]) {
				return sub[1]
			}
		}
	}
	for i := 0; i < snap.LineCount(); i++ {
		if sub := asgVarRe.FindStringSubmatch(snap.Line(i)); sub != nil {
			if !scan.IsStepIdent(sub[1]) {
				return sub[1]
			}
		}
	}
	return DefaultStateVar
}

// detectInitialTargets collects the step identifiers named by the
// uninitialized-sentinel idiom (IF var = -1 THEN var := STATE_X), in
// source order without duplicates. When the idiom is absent it falls
// back to the state variable's declared default value matched against
// the constant table. May legitimately return more than one name; the
// analyzer reports the cardinality error.
func detectInitialTargets(snap *source.Snapshot, m *scan.Matchers, table *sfc.ConstantTable, maxScan int) []string {
	var targets []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[strings.ToUpper(name)] || !table.Has(name) {
			return
		}
		seen[strings.ToUpper(name)] = true
		targets = append(targets, name)
	}

	lines := snap.LinesCopy()
	for i := 0; i < len(lines); i++ {
		ln := m.Classify(lines[i])
		switch ln.Kind {
		case scan.KindInlineTransition:
			if m.SentinelGuard(ln.Guard) {
				add(ln.Target)
			}
		case scan.KindIfOpen:
			if ln.Elsif || !m.SentinelGuard(ln.Guard) {
				continue
			}
			if blk, ok := scan.MatchBlock(m, lines, i, maxScan); ok {
				add(blk.Target)
				i += blk.Lines - 1
			}
		}
	}
	if len(targets) > 0 {
		return targets
	}

	// фолбэк: объявленное значение по умолчанию самой переменной
	defRe := regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s\s*:\s*INT\s*:=\s*(-?\d+)\s*;`, regexp.QuoteMeta(m.StateVar)))
	for i := 0; i < snap.LineCount(); i++ {
		if sub := defRe.FindStringSubmatch(snap.Line(i)); sub != nil {
			if v, err := strconv.ParseInt(sub[1], 10, 64); err == nil {
				if name, ok := table.ByValue(v); ok {
					add(name)
				}
			}
			break
		}
	}
	return targets
}
