package analyze

import (
	"testing"

	"stchart/internal/diag"
	"stchart/internal/parse"
	"stchart/internal/source"
)

func analyzeText(t *testing.T, text string, opts Options) *diag.Bag {
	t.Helper()
	snap := source.New("t.st", text)
	chart := parse.Parse(snap, parse.Options{})
	bag := diag.NewBag(64)
	Analyze(snap, chart, opts, diag.BagReporter{Bag: bag})
	return bag
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func findCode(bag *diag.Bag, code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range bag.Items() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

func TestAnalyzeEmptyChartReportsNothing(t *testing.T) {
	bag := analyzeText(t, "no machine in sight\n", Options{})

	if bag.Len() != 0 {
		t.Fatalf("empty chart must produce no diagnostics, got %d", bag.Len())
	}
}

func TestAnalyzeMultipleInitialSteps(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_B : INT := 1;
END_VAR
IF state = -1 THEN state := STATE_A; END_IF;
IF state = -1 THEN state := STATE_B; END_IF;
IF state = STATE_A THEN
    state := STATE_B;
ELSIF state = STATE_B THEN
    state := STATE_A;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaMultipleInitial) != 1 {
		t.Fatalf("expected exactly one multiple-initial error")
	}
	d, _ := findCode(bag, diag.AnaMultipleInitial)
	if len(d.Steps) != 2 {
		t.Fatalf("error must name every initial step, got %v", d.Steps)
	}
	if !bag.HasErrors() {
		t.Fatalf("multiple initial steps must be an error")
	}
}

func TestAnalyzeNoInitialStep(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 7;
    STATE_A : INT := 0;
    STATE_B : INT := 1;
END_VAR
IF state = STATE_A THEN
    state := STATE_B;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaNoInitialStep) != 1 {
		t.Fatalf("expected a no-initial-step error")
	}
	if countCode(bag, diag.AnaUnreachableStep) != 0 {
		t.Fatalf("reachability must stay silent without an initial step")
	}
}

func TestAnalyzeDuplicatePriorityOncePerStep(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_DONE : INT := 1;
    STATE_STOP : INT := 2;
END_VAR
IF state = STATE_A THEN
    IF a THEN state := STATE_DONE; END_IF; (* PRI: 1 *)
    IF b THEN state := STATE_STOP; END_IF; (* PRI: 1 *)
    IF c THEN state := STATE_STOP; END_IF; (* PRI: 1 *)
END_IF;
`, Options{})

	if got := countCode(bag, diag.AnaDuplicatePriority); got != 1 {
		t.Fatalf("expected one warning per conflicted step, got %d", got)
	}
	d, _ := findCode(bag, diag.AnaDuplicatePriority)
	if len(d.Steps) != 1 || d.Steps[0] != "STATE_A" {
		t.Fatalf("warning must name the conflicted step, got %v", d.Steps)
	}
}

func TestAnalyzeImplicitPrioritiesInfo(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_DONE : INT := 1;
    STATE_STOP : INT := 2;
END_VAR
IF state = STATE_A THEN
    IF a THEN state := STATE_DONE; END_IF;
    IF b THEN state := STATE_STOP; END_IF;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaImplicitPriorities) != 1 {
		t.Fatalf("expected encounter-order info for STATE_A")
	}
}

func TestAnalyzeDeadlockWarning(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_WAIT : INT := 1;
END_VAR
IF state = STATE_A THEN
    state := STATE_WAIT;
ELSIF state = STATE_WAIT THEN
    x := 1;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaDeadlockStep) != 1 {
		t.Fatalf("expected a deadlock warning for STATE_WAIT")
	}
	d, _ := findCode(bag, diag.AnaDeadlockStep)
	if len(d.Steps) != 1 || d.Steps[0] != "STATE_WAIT" {
		t.Fatalf("deadlock warning must name the stuck step, got %v", d.Steps)
	}
}

func TestAnalyzeTerminalNameSuppressesDeadlock(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_DONE : INT := 1;
END_VAR
IF state = STATE_A THEN
    state := STATE_DONE;
ELSIF state = STATE_DONE THEN
    x := 1;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaDeadlockStep) != 0 {
		t.Fatalf("terminal-looking step must not be a deadlock")
	}
}

func TestAnalyzeTerminalLabelSuppressesDeadlock(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_X : INT := 1; (* Final resting place *)
END_VAR
IF state = STATE_A THEN
    state := STATE_X;
ELSIF state = STATE_X THEN
    x := 1;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaDeadlockStep) != 0 {
		t.Fatalf("terminal-looking label must not be a deadlock")
	}
}

func TestAnalyzeUnreachableStep(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_ORPHAN : INT := 1;
END_VAR
IF state = STATE_A THEN
    x := 1;
ELSIF state = STATE_ORPHAN THEN
    x := 2;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaUnreachableStep) != 1 {
		t.Fatalf("expected STATE_ORPHAN to be unreachable")
	}
}

func TestAnalyzeRawAssignmentSuppressesUnreachable(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_ORPHAN : INT := 1;
END_VAR
IF state = STATE_A THEN
    x := 1;
ELSIF state = STATE_ORPHAN THEN
    x := 2;
END_IF;
state := STATE_ORPHAN;
`, Options{})

	if countCode(bag, diag.AnaUnreachableStep) != 0 {
		t.Fatalf("a raw assignment to the step must suppress the warning")
	}
}

func TestAnalyzeReachabilityMonotonicity(t *testing.T) {
	base := `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_B : INT := 1;
    STATE_C : INT := 2;
END_VAR
IF state = STATE_A THEN
    state := STATE_B;
ELSIF state = STATE_B THEN
    x := 1;
ELSIF state = STATE_C THEN
    x := 2;
END_IF;
`
	extended := `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_B : INT := 1;
    STATE_C : INT := 2;
END_VAR
IF state = STATE_A THEN
    state := STATE_B;
ELSIF state = STATE_B THEN
    state := STATE_C;
ELSIF state = STATE_C THEN
    x := 2;
END_IF;
`
	before := countCode(analyzeText(t, base, Options{}), diag.AnaUnreachableStep)
	after := countCode(analyzeText(t, extended, Options{}), diag.AnaUnreachableStep)

	if before != 1 {
		t.Fatalf("expected STATE_C unreachable in the base text, got %d warnings", before)
	}
	if after != 0 {
		t.Fatalf("adding an edge must only grow the reachable set, got %d warnings", after)
	}
}

func TestAnalyzeNestingDepth(t *testing.T) {
	text := `VAR
    state : INT := 0;
    STATE_A : INT := 0;
END_VAR
IF state = STATE_A THEN
    IF a THEN
        IF b THEN
            IF c THEN
                IF d THEN
                    IF e THEN
                        x := 1;
                    END_IF;
                END_IF;
            END_IF;
        END_IF;
    END_IF;
END_IF;
`
	bag := analyzeText(t, text, Options{})
	if countCode(bag, diag.AnaNestingTooDeep) != 1 {
		t.Fatalf("expected a nesting error at the default limit")
	}

	relaxed := analyzeText(t, text, Options{MaxNesting: 10})
	if countCode(relaxed, diag.AnaNestingTooDeep) != 0 {
		t.Fatalf("raised limit must clear the nesting error")
	}
}

func TestAnalyzeMissingDuration(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
END_VAR
IF state = STATE_A THEN
    (* Q:D *) heater := TRUE;
    (* Q:L T:T#5s *) lamp := TRUE;
END_IF;
`, Options{})

	if countCode(bag, diag.AnaMissingDuration) != 1 {
		t.Fatalf("expected one missing-duration warning")
	}
}

func TestAnalyzeUnknownRefAndOverflowSurface(t *testing.T) {
	text := `VAR
    state : INT := 0;
    STATE_A : INT := 0;
END_VAR
IF state = STATE_A THEN
    IF go THEN state := STATE_GHOST; END_IF;
    IF cond THEN
        x := 1;
        x := 2;
        x := 3;
        x := 4;
        x := 5;
    END_IF;
END_IF;
`
	snap := source.New("t.st", text)
	chart := parse.Parse(snap, parse.Options{MaxBlockScan: 3})
	bag := diag.NewBag(64)
	Analyze(snap, chart, Options{}, diag.BagReporter{Bag: bag})

	if countCode(bag, diag.AnaUnknownStepRef) != 1 {
		t.Fatalf("expected a warning for STATE_GHOST")
	}
	if countCode(bag, diag.ScanBoundExceeded) != 1 {
		t.Fatalf("expected a scan-bound warning")
	}
}

func TestAnalyzeMisplacedInitInfo(t *testing.T) {
	bag := analyzeText(t, `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    retries : INT := 3;
END_VAR
IF state = STATE_A THEN
    x := 1;
END_IF;
`, Options{})

	if countCode(bag, diag.ScanMisplacedInit) != 1 {
		t.Fatalf("expected an info for the initialized non-step variable")
	}
	if bag.HasErrors() {
		t.Fatalf("misplaced initialization must not be an error")
	}
}
