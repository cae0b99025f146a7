package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"stchart/internal/diag"
	"stchart/internal/sfc"
	"stchart/internal/source"
)

// DefaultMaxNesting is the conditional depth (inside a step, relative
// to the step chain) beyond which a step is reported as an error.
const DefaultMaxNesting = 4

// DefaultTerminalPattern matches step names or labels that look like
// deliberate terminal states, which suppresses the deadlock warning.
const DefaultTerminalPattern = `(?i)(END|DONE|STOP|FINAL|FINISH|COMPLETE|HALT|TERM|ERROR)`

// Options tunes the analysis. The zero value uses the defaults above.
type Options struct {
	MaxNesting      int
	TerminalPattern string
}

func (o Options) maxNesting() int {
	if o.MaxNesting <= 0 {
		return DefaultMaxNesting
	}
	return o.MaxNesting
}

func (o Options) terminalRe() *regexp.Regexp {
	pat := o.TerminalPattern
	if pat == "" {
		pat = DefaultTerminalPattern
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return regexp.MustCompile(DefaultTerminalPattern)
	}
	return re
}

// Analyze runs every check over the chart and reports findings. The
// checks are independent and pure; none suppresses another except the
// documented reachability/assignment interaction. An empty chart
// produces no diagnostics at all: "no steps" is a valid display state.
func Analyze(snap *source.Snapshot, chart *sfc.Chart, opts Options, r diag.Reporter) {
	if chart == nil || chart.Empty() {
		return
	}

	checkInitialCardinality(chart, r)
	visited := reachableSet(chart)
	checkReachability(snap, chart, visited, r)
	checkDeadlocks(chart, visited, opts, r)
	checkNesting(chart, opts, r)
	checkPriorities(chart, r)
	checkUnknownRefs(chart, r)
	checkMisplacedInits(chart, r)
	checkScanOverflows(chart, r)
	checkDurations(chart, r)
}

func checkInitialCardinality(chart *sfc.Chart, r diag.Reporter) {
	inits := chart.InitialSteps()
	switch {
	case len(inits) == 0:
		first := chart.Steps[0]
		r.Report(diag.NewError(diag.AnaNoInitialStep, first.Decl,
			"no initial step: no uninitialized-sentinel idiom and no matching declared default").
			WithStep(stepNames(chart.Steps)...))
	case len(inits) > 1:
		names := stepNames(inits)
		d := diag.NewError(diag.AnaMultipleInitial, inits[0].Decl,
			fmt.Sprintf("multiple initial steps: %s", strings.Join(names, ", "))).
			WithStep(names...)
		for _, s := range inits[1:] {
			d = d.WithNote(s.Decl, fmt.Sprintf("%s is also marked initial", s.Name))
		}
		r.Report(d)
	}
}

// reachableSet walks transitions breadth-first from the initial steps,
// keyed case-insensitively since targets keep their source spelling.
// Returns nil when there is no initial step to start from.
func reachableSet(chart *sfc.Chart) map[string]bool {
	inits := chart.InitialSteps()
	if len(inits) == 0 {
		return nil
	}
	visited := make(map[string]bool)
	queue := make([]*sfc.Step, 0, len(chart.Steps))
	for _, s := range inits {
		visited[strings.ToUpper(s.Name)] = true
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, tr := range cur.Transitions {
			if visited[strings.ToUpper(tr.Target)] {
				continue
			}
			next, ok := chart.Step(tr.Target)
			if !ok {
				continue
			}
			visited[strings.ToUpper(tr.Target)] = true
			queue = append(queue, next)
		}
	}
	return visited
}

// checkReachability warns about steps the BFS never visited, unless
// the identifier appears anywhere in the text as an assignment target.
// The suppression covers block-matcher misses, trading false negatives
// for fewer false positives.
func checkReachability(snap *source.Snapshot, chart *sfc.Chart, visited map[string]bool, r diag.Reporter) {
	if visited == nil {
		return
	}
	assigned := assignedAnywhere(snap, chart.StateVar)
	for _, s := range chart.Steps {
		if visited[strings.ToUpper(s.Name)] {
			continue
		}
		if assigned[strings.ToUpper(s.Name)] {
			continue
		}
		r.Report(diag.NewWarning(diag.AnaUnreachableStep, primaryRange(s),
			fmt.Sprintf("step %s is unreachable from the initial step", s.Name)).
			WithStep(s.Name))
	}
}

// assignedAnywhere collects every identifier assigned to the state
// variable anywhere in the raw text, keyed case-insensitively.
func assignedAnywhere(snap *source.Snapshot, stateVar string) map[string]bool {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)%s\s*:=\s*([A-Za-z_][A-Za-z0-9_]*)`, regexp.QuoteMeta(stateVar)))
	out := make(map[string]bool)
	for i := 0; i < snap.LineCount(); i++ {
		for _, sub := range re.FindAllStringSubmatch(snap.Line(i), -1) {
			out[strings.ToUpper(sub[1])] = true
		}
	}
	return out
}

func checkDeadlocks(chart *sfc.Chart, visited map[string]bool, opts Options, r diag.Reporter) {
	if visited == nil {
		return
	}
	terminal := opts.terminalRe()
	for _, s := range chart.Steps {
		if !visited[strings.ToUpper(s.Name)] || len(s.Transitions) > 0 {
			continue
		}
		if terminal.MatchString(s.Name) || terminal.MatchString(s.Label) {
			continue
		}
		r.Report(diag.NewWarning(diag.AnaDeadlockStep, primaryRange(s),
			fmt.Sprintf("step %s has no outgoing transitions", s.Name)).
			WithStep(s.Name))
	}
}

func checkNesting(chart *sfc.Chart, opts Options, r diag.Reporter) {
	limit := opts.maxNesting()
	for _, s := range chart.Steps {
		if s.MaxDepth <= limit {
			continue
		}
		r.Report(diag.NewError(diag.AnaNestingTooDeep, s.Body,
			fmt.Sprintf("step %s nests conditionals %d deep (limit %d)", s.Name, s.MaxDepth, limit)).
			WithStep(s.Name))
	}
}

func checkPriorities(chart *sfc.Chart, r diag.Reporter) {
	for _, s := range chart.Steps {
		if len(s.Transitions) < 2 {
			continue
		}
		seen := make(map[int]int)
		anyExplicit := false
		dup := 0
		hasDup := false
		for _, tr := range s.Transitions {
			if tr.Explicit {
				anyExplicit = true
			}
			seen[tr.Priority]++
			if seen[tr.Priority] == 2 && !hasDup {
				dup = tr.Priority
				hasDup = true
			}
		}
		if hasDup {
			r.Report(diag.NewWarning(diag.AnaDuplicatePriority, primaryRange(s),
				fmt.Sprintf("step %s has transitions sharing priority %d", s.Name, dup)).
				WithStep(s.Name))
		}
		if !anyExplicit {
			r.Report(diag.NewInfo(diag.AnaImplicitPriorities, primaryRange(s),
				fmt.Sprintf("step %s orders %d transitions by encounter only; consider explicit priorities", s.Name, len(s.Transitions))).
				WithStep(s.Name))
		}
	}
}

func checkUnknownRefs(chart *sfc.Chart, r diag.Reporter) {
	for _, ref := range chart.UnknownRefs {
		r.Report(diag.NewWarning(diag.AnaUnknownStepRef, ref.Range,
			fmt.Sprintf("assignment targets undeclared step %s", ref.Name)).
			WithStep(ref.Name))
	}
}

func checkMisplacedInits(chart *sfc.Chart, r diag.Reporter) {
	for _, mi := range chart.MisplacedInits {
		r.Report(diag.NewInfo(diag.ScanMisplacedInit, mi.Range,
			fmt.Sprintf("non-step variable %s is initialized in the variable block", mi.Name)))
	}
}

func checkScanOverflows(chart *sfc.Chart, r diag.Reporter) {
	for _, rng := range chart.Overflows {
		r.Report(diag.NewWarning(diag.ScanBoundExceeded, rng,
			"conditional block exceeds the transition scan bound; classified as actions"))
	}
}

func checkDurations(chart *sfc.Chart, r diag.Reporter) {
	for _, s := range chart.Steps {
		for _, act := range s.Actions {
			if act.Qualifier.NeedsDuration() && act.Duration == "" {
				r.Report(diag.NewWarning(diag.AnaMissingDuration, act.Range,
					fmt.Sprintf("qualifier %s in step %s requires a duration", act.Qualifier, s.Name)).
					WithStep(s.Name))
			}
		}
	}
}

// primaryRange prefers the step body, falling back to the declaration
// for bodiless steps.
func primaryRange(s *sfc.Step) source.LineRange {
	if !s.Body.Empty() {
		return s.Body
	}
	return s.Decl
}

func stepNames(steps []*sfc.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}
