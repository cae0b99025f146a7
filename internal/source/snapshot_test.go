package source

import (
	"strings"
	"testing"
)

func TestSnapshotLineIndexing(t *testing.T) {
	snap := New("test.st", "first\nsecond\nthird\n")

	if snap.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", snap.LineCount())
	}
	if got := snap.Line(1); got != "second" {
		t.Fatalf("expected line 1 to be %q, got %q", "second", got)
	}
	if got := snap.Line(99); got != "" {
		t.Fatalf("expected out-of-range line to be empty, got %q", got)
	}
	if !snap.FinalNewline() {
		t.Fatalf("expected trailing newline to be recorded")
	}
}

func TestSnapshotJoinRoundTrip(t *testing.T) {
	for _, text := range []string{
		"",
		"single line",
		"a\nb",
		"a\nb\n",
		"\n\n\n",
	} {
		snap := New("test.st", text)
		if got := snap.Join(snap.LinesCopy()); got != text {
			t.Fatalf("round-trip mismatch for %q: got %q", text, got)
		}
	}
}

func TestSnapshotRangeClamping(t *testing.T) {
	snap := New("test.st", "a\nb\nc")

	r := snap.Range(1, 10)
	if r.First != 1 || r.End != 3 {
		t.Fatalf("expected clamped range [1,3), got [%d,%d)", r.First, r.End)
	}
	if got := snap.Text(r); got != "b\nc" {
		t.Fatalf("expected range text %q, got %q", "b\nc", got)
	}

	empty := snap.Range(2, 2)
	if !empty.Empty() {
		t.Fatalf("expected empty range")
	}
}

func TestStaleRangeDetected(t *testing.T) {
	snapA := New("a.st", "a\nb\nc")
	snapB := New("b.st", "a\nb\nc")

	r := snapA.Range(0, 2)
	if snapB.Owns(r) {
		t.Fatalf("range from one snapshot must not be owned by another")
	}
	if got := snapB.Text(r); got != "" {
		t.Fatalf("stale range must yield empty text, got %q", got)
	}
}

func TestRangeCoverAndOverlap(t *testing.T) {
	snap := New("test.st", strings.Repeat("x\n", 10))

	a := snap.Range(2, 4)
	b := snap.Range(3, 7)
	if !a.Overlaps(b) {
		t.Fatalf("expected [2,4) to overlap [3,7)")
	}
	c := a.Cover(b)
	if c.First != 2 || c.End != 7 {
		t.Fatalf("expected cover [2,7), got [%d,%d)", c.First, c.End)
	}

	other := New("other.st", "x").Range(0, 1)
	if a.Overlaps(other) {
		t.Fatalf("ranges from different snapshots must not overlap")
	}
}
