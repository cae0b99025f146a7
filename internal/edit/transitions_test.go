package edit

import (
	"testing"

	"stchart/internal/parse"
	"stchart/internal/source"
)

func TestRetargetTransition(t *testing.T) {
	out := Retarget(machine, "STATE_RUN", 0, "STATE_IDLE")

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	run, _ := chart.Step("STATE_RUN")
	if len(run.Transitions) != 2 {
		t.Fatalf("retarget must not change the transition count")
	}
	if run.Transitions[0].Target != "STATE_IDLE" {
		t.Fatalf("expected STATE_IDLE, got %q", run.Transitions[0].Target)
	}
	if run.Transitions[0].Guard != "ready" {
		t.Fatalf("guard must survive the retarget, got %q", run.Transitions[0].Guard)
	}
}

func TestRetargetRefusals(t *testing.T) {
	if out := Retarget(machine, "STATE_RUN", 5, "STATE_IDLE"); out != machine {
		t.Fatalf("out-of-range index must be a no-op")
	}
	if out := Retarget(machine, "STATE_RUN", 0, "STATE_GHOST"); out != machine {
		t.Fatalf("undeclared target must be a no-op")
	}
	if out := Retarget(machine, "STATE_RUN", 0, "STATE_DONE"); out != machine {
		t.Fatalf("same target must be a no-op")
	}
}

func TestSetPriorityExplicitMarker(t *testing.T) {
	out := SetPriority(machine, "STATE_RUN", 0, 5)

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	run, _ := chart.Step("STATE_RUN")
	if !run.Transitions[0].Explicit || run.Transitions[0].Priority != 5 {
		t.Fatalf("expected explicit priority 5, got %+v", run.Transitions[0])
	}
}

func TestSetPriorityReplacesExistingMarker(t *testing.T) {
	once := SetPriority(machine, "STATE_RUN", 0, 5)
	twice := SetPriority(once, "STATE_RUN", 0, 7)

	chart := parse.Parse(source.New("t.st", twice), parse.Options{})
	run, _ := chart.Step("STATE_RUN")
	if run.Transitions[0].Priority != 7 {
		t.Fatalf("expected rewritten priority 7, got %+v", run.Transitions[0])
	}
	if SetPriority(twice, "STATE_RUN", 0, 7) != twice {
		t.Fatalf("setting the current priority must be a no-op")
	}
}

func TestReorderTransitions(t *testing.T) {
	out := ReorderTransitions(machine, "STATE_RUN", []int{1, 0})

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	run, _ := chart.Step("STATE_RUN")
	if len(run.Transitions) != 2 {
		t.Fatalf("reorder must not change the transition count")
	}
	if run.Transitions[0].Target != "STATE_IDLE" || run.Transitions[1].Target != "STATE_DONE" {
		t.Fatalf("unexpected order: %+v", run.Transitions)
	}
}

func TestReorderTransitionsRoundTrip(t *testing.T) {
	once := ReorderTransitions(machine, "STATE_RUN", []int{1, 0})
	back := ReorderTransitions(once, "STATE_RUN", []int{1, 0})

	if back != machine {
		t.Fatalf("swapping twice must reproduce the input byte for byte")
	}
}

func TestReorderTransitionsRefusals(t *testing.T) {
	if out := ReorderTransitions(machine, "STATE_RUN", []int{0, 1}); out != machine {
		t.Fatalf("identity order must be a no-op")
	}
	if out := ReorderTransitions(machine, "STATE_RUN", []int{0, 0}); out != machine {
		t.Fatalf("non-permutation must be a no-op")
	}
	if out := ReorderTransitions(machine, "STATE_RUN", []int{0}); out != machine {
		t.Fatalf("wrong length must be a no-op")
	}
}

func TestNormalizePriorities(t *testing.T) {
	out := NormalizePriorities(machine, "STATE_RUN", 10)

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	run, _ := chart.Step("STATE_RUN")
	want := []int{10, 20}
	for i, tr := range run.Transitions {
		if !tr.Explicit || tr.Priority != want[i] {
			t.Fatalf("transition %d: expected explicit %d, got %+v", i, want[i], tr)
		}
	}
	if NormalizePriorities(out, "STATE_RUN", 10) != out {
		t.Fatalf("normalizing twice must be a no-op")
	}
}

const skewedMachine = `VAR
    state : INT := 0;
    STATE_A : INT := 0;
    STATE_B : INT := 1;
    STATE_C : INT := 2;
END_VAR

IF state = -1 THEN state := STATE_A; END_IF;

IF state = STATE_A THEN
    IF x THEN (* PRI: 20 *)
        state := STATE_B;
    END_IF;
    IF y THEN (* PRI: 10 *)
        state := STATE_C;
    END_IF;
END_IF;
`

func TestNormalizePrioritiesKeepsSourceOrder(t *testing.T) {
	out := NormalizePriorities(skewedMachine, "STATE_A", 10)

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	a, _ := chart.Step("STATE_A")
	if len(a.Transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(a.Transitions))
	}
	// лестница идёт по порядку в тексте, не по старым приоритетам
	if a.Transitions[0].Target != "STATE_B" || a.Transitions[0].Priority != 10 {
		t.Fatalf("first transition must get 10, got %+v", a.Transitions[0])
	}
	if a.Transitions[1].Target != "STATE_C" || a.Transitions[1].Priority != 20 {
		t.Fatalf("second transition must get 20, got %+v", a.Transitions[1])
	}
}
