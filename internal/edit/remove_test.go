package edit

import (
	"strings"
	"testing"

	"stchart/internal/parse"
	"stchart/internal/source"
)

func TestRemoveStepStripsEveryTrace(t *testing.T) {
	out := RemoveStep(machine, "STATE_DONE", RemoveOptions{StripReferences: true})

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	if _, ok := chart.Step("STATE_DONE"); ok {
		t.Fatalf("removed step still parses")
	}
	for _, s := range chart.Steps {
		for _, tr := range s.Transitions {
			if tr.Target == "STATE_DONE" {
				t.Fatalf("transition to removed step survived in %s", s.Name)
			}
		}
	}
	if strings.Contains(out, "state := STATE_DONE") {
		t.Fatalf("assignment to removed step survived:\n%s", out)
	}
	if len(chart.UnknownRefs) != 0 {
		t.Fatalf("stripped removal must leave no dangling refs, got %+v", chart.UnknownRefs)
	}
}

func TestRemoveStepKeepsReferencesByDefault(t *testing.T) {
	out := RemoveStep(machine, "STATE_DONE", RemoveOptions{})

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	if _, ok := chart.Step("STATE_DONE"); ok {
		t.Fatalf("removed step still parses")
	}
	if len(chart.UnknownRefs) == 0 {
		t.Fatalf("kept references must surface as unknown refs")
	}
}

func TestRemoveFirstChainSegmentPromotesElsif(t *testing.T) {
	out := RemoveStep(machine, "STATE_IDLE", RemoveOptions{StripReferences: true})

	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	if _, ok := chart.Step("STATE_IDLE"); ok {
		t.Fatalf("removed step still parses")
	}
	run, ok := chart.Step("STATE_RUN")
	if !ok {
		t.Fatalf("surviving steps lost")
	}
	if run.Body.Empty() {
		t.Fatalf("promoted ELSIF arm must still parse as a chain head")
	}
}

func TestRemoveOnlyStepDropsChain(t *testing.T) {
	text := `VAR
    state : INT := 0;
    STATE_ONLY : INT := 0;
END_VAR
IF state = STATE_ONLY THEN
    x := 1;
END_IF;
`
	out := RemoveStep(text, "STATE_ONLY", RemoveOptions{})

	if strings.Contains(out, "END_IF") {
		t.Fatalf("removing the only segment must drop the chain END_IF:\n%s", out)
	}
	chart := parse.Parse(source.New("t.st", out), parse.Options{})
	if !chart.Empty() {
		t.Fatalf("expected an empty chart after removal")
	}
}

func TestRemoveUnknownStepIsNoop(t *testing.T) {
	if out := RemoveStep(machine, "STATE_GHOST", RemoveOptions{}); out != machine {
		t.Fatalf("unknown step must be a no-op")
	}
}
