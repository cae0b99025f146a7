package scan

import (
	"strings"
	"testing"
)

func lines(text string) []string {
	return strings.Split(text, "\n")
}

func TestMatchBlockSimple(t *testing.T) {
	m := NewMatchers("state")
	src := lines(`IF temp > 50.0 THEN
    state := STATE_COOL;
END_IF;`)

	blk, ok := MatchBlock(m, src, 0, 0)
	if !ok {
		t.Fatalf("expected block to close")
	}
	if blk.Guard != "temp > 50.0" {
		t.Fatalf("unexpected guard %q", blk.Guard)
	}
	if blk.Target != "STATE_COOL" || blk.TargetLine != 1 {
		t.Fatalf("unexpected target %q at %d", blk.Target, blk.TargetLine)
	}
	if blk.Lines != 3 {
		t.Fatalf("expected 3 consumed lines, got %d", blk.Lines)
	}
}

func TestMatchBlockNestedDepth(t *testing.T) {
	m := NewMatchers("state")
	src := lines(`IF a THEN
    IF b THEN
        IF c THEN
            state := STATE_DEEP;
        END_IF;
    END_IF;
END_IF;`)

	blk, ok := MatchBlock(m, src, 0, 0)
	if !ok {
		t.Fatalf("expected nested block to close")
	}
	if blk.MaxDepth != 3 {
		t.Fatalf("expected max depth 3, got %d", blk.MaxDepth)
	}
	if blk.Target != "STATE_DEEP" {
		t.Fatalf("unexpected target %q", blk.Target)
	}
	if blk.Lines != 7 {
		t.Fatalf("expected 7 consumed lines, got %d", blk.Lines)
	}
}

func TestMatchBlockElsifKeepsDepth(t *testing.T) {
	m := NewMatchers("state")
	src := lines(`IF a THEN
    x := 1;
ELSIF b THEN
    state := STATE_B;
END_IF;`)

	blk, ok := MatchBlock(m, src, 0, 0)
	if !ok {
		t.Fatalf("expected block with ELSIF arm to close")
	}
	if blk.MaxDepth != 1 {
		t.Fatalf("ELSIF must not add depth, got %d", blk.MaxDepth)
	}
	if blk.Target != "STATE_B" {
		t.Fatalf("unexpected target %q", blk.Target)
	}
}

func TestMatchBlockInlineTransitionInside(t *testing.T) {
	m := NewMatchers("state")
	src := lines(`IF a THEN
    IF b THEN state := STATE_B; END_IF;
END_IF;`)

	blk, ok := MatchBlock(m, src, 0, 0)
	if !ok {
		t.Fatalf("expected block to close, inline arm is self-balanced")
	}
	if blk.Target != "STATE_B" {
		t.Fatalf("expected inline assignment to count, got %q", blk.Target)
	}
}

func TestMatchBlockOverflow(t *testing.T) {
	m := NewMatchers("state")
	src := []string{"IF a THEN"}
	for i := 0; i < 10; i++ {
		src = append(src, "    x := 1;")
	}

	blk, ok := MatchBlock(m, src, 0, 5)
	if ok {
		t.Fatalf("expected bounded scan to fail")
	}
	if !blk.Overflowed {
		t.Fatalf("expected overflow flag")
	}
}

func TestMatchBlockUnclosedAtEOF(t *testing.T) {
	m := NewMatchers("state")
	src := lines(`IF a THEN
    state := STATE_B;`)

	blk, ok := MatchBlock(m, src, 0, 0)
	if ok {
		t.Fatalf("unclosed block must not match")
	}
	if !blk.Overflowed {
		t.Fatalf("expected run-out to be reported as overflow")
	}
}
