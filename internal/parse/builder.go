package parse

import (
	"regexp"
	"strings"

	"stchart/internal/scan"
	"stchart/internal/sfc"
	"stchart/internal/source"
)

// Options tunes a single parse. The zero value detects everything.
type Options struct {
	// StateVar overrides heuristic detection of the state variable.
	StateVar string
	// MaxBlockScan bounds the forward scan for multi-line transitions;
	// 0 means scan.DefaultMaxBlockScan.
	MaxBlockScan int
}

var declLabelRe = regexp.MustCompile(`;\s*\(\*\s*(.*?)\s*\*\)\s*$`)

// Parse rebuilds the chart of one snapshot from scratch. It is total:
// arbitrary input yields a possibly empty chart, never an error. The
// returned chart and every range inside it are bound to snap.
func Parse(snap *source.Snapshot, opts Options) *sfc.Chart {
	stateVar := opts.StateVar
	if stateVar == "" {
		stateVar = DetectStateVar(snap)
	}
	maxScan := opts.MaxBlockScan
	if maxScan <= 0 {
		maxScan = scan.DefaultMaxBlockScan
	}

	m := scan.NewMatchers(stateVar)
	chart := sfc.NewChart(snap.ID, stateVar)
	lines := snap.LinesCopy()

	collectDeclarations(snap, m, chart, lines)

	for _, name := range detectInitialTargets(snap, m, chart.Table, maxScan) {
		if step, ok := chart.Step(name); ok {
			step.Kind = sfc.StepInitial
		}
	}

	walkBody(snap, m, chart, lines, maxScan)
	return chart
}

// collectDeclarations runs the constant-table pass: step-convention
// declarations seed steps; other initialized declarations inside the
// variable block are kept for the misplaced-initialization diagnostic.
func collectDeclarations(snap *source.Snapshot, m *scan.Matchers, chart *sfc.Chart, lines []string) {
	inVar := false
	for i, raw := range lines {
		ln := m.Classify(raw)
		switch ln.Kind {
		case scan.KindVarBlock:
			inVar = !ln.VarEnd
		case scan.KindDecl:
			if scan.IsStepIdent(ln.Ident) {
				if chart.Table.Add(ln.Ident, ln.Value) {
					chart.AddStep(&sfc.Step{
						Name:  ln.Ident,
						Label: declLabel(raw, ln.Ident),
						Value: ln.Value,
						Kind:  sfc.StepOrdinary,
						Decl:  snap.At(i),
						Body:  snap.Range(i, i), // пустой, пока нет заголовка
					})
				}
				continue
			}
			if inVar && !strings.EqualFold(ln.Ident, m.StateVar) {
				chart.MisplacedInits = append(chart.MisplacedInits, sfc.MisplacedInit{
					Name:  ln.Ident,
					Range: snap.At(i),
				})
			}
		}
	}
}

// declLabel takes the trailing comment of a declaration line as the
// step's display label, falling back to the identifier.
func declLabel(raw, name string) string {
	if sub := declLabelRe.FindStringSubmatch(raw); sub != nil && sub[1] != "" {
		return sub[1]
	}
	return name
}

// walkBody iterates lines sequentially, tracking the current step and
// the nesting depth of the step chain, so a step closes only when
// nesting returns to the chain's own depth.
func walkBody(snap *source.Snapshot, m *scan.Matchers, chart *sfc.Chart, lines []string, maxScan int) {
	var (
		cur        *sfc.Step
		bodyStart  int
		depth      int // absolute depth of the open chain; headers live at 1
		openAction = -1
		pendingPri = 0
		hasPending = false
	)

	closeStep := func(end int) {
		if cur != nil {
			cur.Body = snap.Range(bodyStart, end)
			cur = nil
		}
		openAction = -1
	}

	recordUnknown := func(name string, i int) {
		if scan.IsStepIdent(name) && !chart.Table.Has(name) {
			chart.UnknownRefs = append(chart.UnknownRefs, sfc.UnknownRef{
				Name:  name,
				Range: snap.At(i),
			})
		}
	}

	addTransition := func(target, guard string, r source.LineRange, inlinePri int, hasInline bool) {
		pri, explicit := 0, false
		switch {
		case hasInline:
			pri, explicit = inlinePri, true
		case hasPending:
			pri, explicit = pendingPri, true
		default:
			pri = len(cur.Transitions) + 1
		}
		cur.Transitions = append(cur.Transitions, sfc.Transition{
			Target:   target,
			Guard:    guard,
			Priority: pri,
			Explicit: explicit,
			Range:    r,
		})
		openAction = -1
	}

	appendActionLine := func(i int, ln scan.Line, raw string) {
		if ln.Kind == scan.KindQualifier {
			qual, ok := sfc.ParseQualifier(ln.Qual)
			if !ok {
				qual = sfc.QualNonStored
			}
			cur.Actions = append(cur.Actions, sfc.Action{
				Qualifier: qual,
				Duration:  ln.Duration,
				Body:      ln.Rest,
				Range:     snap.At(i),
			})
			openAction = len(cur.Actions) - 1
			return
		}
		body := strings.TrimSpace(raw)
		if openAction >= 0 {
			act := &cur.Actions[openAction]
			if act.Body == "" {
				act.Body = body
			} else {
				act.Body += "\n" + body
			}
			act.Range = act.Range.Cover(snap.At(i))
			return
		}
		cur.Actions = append(cur.Actions, sfc.Action{
			Qualifier: sfc.QualNonStored,
			Body:      body,
			Range:     snap.At(i),
		})
		openAction = len(cur.Actions) - 1
	}

	trackDepth := func(d int) {
		if cur != nil && d > cur.MaxDepth {
			cur.MaxDepth = d
		}
	}

	i := 0
	for i < len(lines) {
		ln := m.Classify(lines[i])

		// заголовок шага на базовой глубине цепочки
		if ln.Kind == scan.KindStepHeader && (cur == nil || depth == 1) {
			if step, ok := chart.Step(ln.Target); ok {
				closeStep(i)
				cur = step
				bodyStart = i
				depth = 1
				hasPending = false
				i++
				continue
			}
			recordUnknown(ln.Target, i)
			// неизвестный шаг: трактуем строку как обычный IF/ELSIF
			if !ln.Elsif && cur != nil {
				depth++
				trackDepth(depth - 1)
			}
			i++
			continue
		}

		if cur == nil {
			// вне шага интересны только закрытия висящих цепочек
			i++
			continue
		}

		switch ln.Kind {
		case scan.KindStepHeader:
			// заголовок на вложенной глубине — обычный IF
			if !ln.Elsif {
				depth++
				trackDepth(depth - 1)
			}
			appendActionLine(i, ln, lines[i])

		case scan.KindEndIf:
			if depth == 1 {
				closeStep(i)
				depth = 0
			} else if depth > 1 {
				depth--
			}

		case scan.KindInlineTransition:
			if chart.Table.Has(ln.Target) {
				addTransition(ln.Target, ln.Guard, snap.At(i), ln.Priority, ln.HasPriority)
			} else {
				recordUnknown(ln.Target, i)
				appendActionLine(i, ln, lines[i])
			}

		case scan.KindIfOpen:
			if ln.Elsif {
				// ELSIF продолжает текущий уровень
				break
			}
			blk, ok := scan.MatchBlock(m, lines, i, maxScan)
			if ok && blk.Target != "" && chart.Table.Has(blk.Target) {
				addTransition(blk.Target, blk.Guard, snap.Range(i, i+blk.Lines), ln.Priority, ln.HasPriority)
				trackDepth(depth - 1 + blk.MaxDepth)
				i += blk.Lines
				hasPending = false
				continue
			}
			if blk.Overflowed {
				end := i + maxScan
				if end > len(lines) {
					end = len(lines)
				}
				chart.Overflows = append(chart.Overflows, snap.Range(i, end))
			}
			if blk.Target != "" {
				recordUnknown(blk.Target, i+blk.TargetLine)
			}
			// не переход: строка с guard уходит в действия, глубина растёт
			depth++
			trackDepth(depth - 1)
			appendActionLine(i, ln, lines[i])

		case scan.KindAssign:
			if depth == 1 && chart.Table.Has(ln.Target) {
				addTransition(ln.Target, "true", snap.At(i), ln.Priority, ln.HasPriority)
			} else {
				recordUnknown(ln.Target, i)
				if depth > 1 || !scan.IsStepIdent(ln.Target) {
					appendActionLine(i, ln, lines[i])
				}
			}

		case scan.KindQualifier:
			appendActionLine(i, ln, lines[i])

		case scan.KindComment:
			if ln.HasPriority {
				pendingPri = ln.Priority
				hasPending = true
				i++
				continue
			}

		case scan.KindBlank, scan.KindDecl, scan.KindVarBlock, scan.KindElse:
			// объявления и служебные строки внутри шага игнорируем

		case scan.KindOther:
			appendActionLine(i, ln, lines[i])
		}

		if ln.Kind != scan.KindComment || !ln.HasPriority {
			hasPending = false
		}
		i++
	}
	closeStep(len(lines))
}
