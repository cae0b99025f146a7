package scan

// Block is the result of matching a multi-line transition block that
// starts at a guard line.
type Block struct {
	Guard string
	// Target is the first state-variable assignment found at depth >= 1,
	// or empty when the block assigns nothing to the state variable.
	Target     string
	TargetLine int // 0-based offset of the assignment within lines
	// Lines is the number of lines consumed, open through close.
	Lines int
	// MaxDepth is the deepest conditional nesting observed, counting
	// the block itself as 1.
	MaxDepth int
	// Overflowed is set when the scan hit the bound before the block
	// closed; the caller must not treat the range as a transition.
	Overflowed bool
}

// DefaultMaxBlockScan bounds the forward scan for a closing END_IF.
// Malformed input past this many lines is classified as actions instead
// (the overflow itself is surfaced as a diagnostic by the analyzer).
const DefaultMaxBlockScan = 40

// MatchBlock scans forward from an if-open line at start, tracking
// nested conditional depth, until depth returns to zero or the bound is
// exceeded. Inline transitions inside the block are self-balanced and
// their assignment counts like a bare one.
func MatchBlock(m *Matchers, lines []string, start, bound int) (Block, bool) {
	if bound <= 0 {
		bound = DefaultMaxBlockScan
	}

	open := m.Classify(lines[start])
	if open.Kind != KindIfOpen {
		return Block{}, false
	}

	blk := Block{Guard: open.Guard, MaxDepth: 1}
	depth := 1

	for i := start + 1; i < len(lines); i++ {
		if i-start > bound {
			blk.Overflowed = true
			return blk, false
		}
		switch ln := m.Classify(lines[i]); ln.Kind {
		case KindIfOpen, KindStepHeader:
			// ELSIF продолжает текущий уровень, глубину не меняет
			if ln.Elsif {
				break
			}
			depth++
			if depth > blk.MaxDepth {
				blk.MaxDepth = depth
			}
		case KindEndIf:
			depth--
			if depth == 0 {
				blk.Lines = i - start + 1
				return blk, true
			}
		case KindAssign, KindInlineTransition:
			if blk.Target == "" {
				blk.Target = ln.Target
				blk.TargetLine = i - start
			}
		}
	}

	// ран-аут файла до закрытия блока
	blk.Overflowed = true
	return blk, false
}
