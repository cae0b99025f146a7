package diag

import (
	"testing"

	"stchart/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	snap := source.New("t.st", "a\nb\nc")

	if !bag.Add(NewError(AnaNoInitialStep, snap.At(0), "one")) {
		t.Fatalf("first add must succeed")
	}
	if !bag.Add(NewWarning(AnaDeadlockStep, snap.At(1), "two")) {
		t.Fatalf("second add must succeed")
	}
	if bag.Add(NewInfo(AnaInfo, snap.At(2), "three")) {
		t.Fatalf("add beyond the limit must fail")
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(10)
	snap := source.New("t.st", "a\nb\nc")

	bag.Add(NewInfo(AnaImplicitPriorities, snap.At(2), "info"))
	bag.Add(NewWarning(AnaDeadlockStep, snap.At(0), "warn"))
	bag.Add(NewError(AnaNoInitialStep, snap.At(0), "err"))
	bag.Sort()

	items := bag.Items()
	if items[0].Severity != SevError {
		t.Fatalf("expected error first on the same line, got %v", items[0].Severity)
	}
	if items[2].Code != AnaImplicitPriorities {
		t.Fatalf("expected later line last, got %v", items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	snap := source.New("t.st", "a")

	d := NewWarning(AnaDuplicatePriority, snap.At(0), "dup").WithStep("STATE_RUN")
	bag.Add(d)
	bag.Add(d)
	bag.Dedup()

	if bag.Len() != 1 {
		t.Fatalf("expected dedup to collapse identical diagnostics, got %d", bag.Len())
	}
}
