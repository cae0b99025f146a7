package sfc

import "testing"

func TestConstantTableFoldsCase(t *testing.T) {
	tbl := NewConstantTable()
	if !tbl.Add("STATE_INIT", 0) {
		t.Fatalf("first Add must succeed")
	}
	if tbl.Add("State_Init", 5) {
		t.Fatalf("a case variant is a duplicate, not a new constant")
	}

	if !tbl.Has("state_init") {
		t.Fatalf("Has must ignore case")
	}
	v, ok := tbl.Value("State_INIT")
	if !ok || v != 0 {
		t.Fatalf("Value must ignore case, got %d, %v", v, ok)
	}

	names := tbl.Names()
	if len(names) != 1 || names[0] != "STATE_INIT" {
		t.Fatalf("declared spelling must survive, got %v", names)
	}
}

func TestConstantTableByValueAndMax(t *testing.T) {
	tbl := NewConstantTable()
	tbl.Add("STATE_A", 0)
	tbl.Add("STATE_B", 7)

	if name, ok := tbl.ByValue(7); !ok || name != "STATE_B" {
		t.Fatalf("ByValue(7) = %q, %v", name, ok)
	}
	if tbl.MaxValue() != 7 {
		t.Fatalf("MaxValue = %d, want 7", tbl.MaxValue())
	}
}
