package scan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies one source line.
type Kind uint8

const (
	KindBlank Kind = iota
	KindComment
	KindVarBlock
	KindDecl
	KindStepHeader
	KindInlineTransition
	KindIfOpen
	KindElse
	KindEndIf
	KindAssign
	KindQualifier
	KindOther
)

// Line is the classification of a single source line. Only the fields
// relevant to the Kind are populated.
type Line struct {
	Kind Kind

	Ident string // KindDecl: declared identifier
	Value int64  // KindDecl: declared integer value

	Target string // step identifier compared or assigned
	Elsif  bool   // KindStepHeader / KindIfOpen: ELSIF form
	Guard  string // KindInlineTransition / KindIfOpen

	Qual     string // KindQualifier: qualifier code
	Duration string // KindQualifier: raw duration, may be empty
	Rest     string // KindQualifier: text after the marker

	Priority    int // from an inline (* PRI: n *) marker on any line
	HasPriority bool

	VarEnd bool // KindVarBlock: END_VAR form
}

var (
	identPat    = `[A-Za-z_][A-Za-z0-9_]*`
	stepIdentRe = regexp.MustCompile(`(?i)^STATE_[A-Za-z0-9_]+$`)
	priorityRe  = regexp.MustCompile(`\(\*\s*(?i:PRI(?:ORITY)?)\s*:\s*(\d+)\s*\*\)`)
	qualifierRe = regexp.MustCompile(`^\s*\(\*\s*(?i:Q)\s*:\s*([A-Za-z01]+)(?:\s+(?i:T)\s*:\s*([^*\s]+))?\s*\*\)\s*(.*)$`)
	commentRe   = regexp.MustCompile(`^\s*\(\*.*\*\)\s*;?\s*$`)
	varBlockRe  = regexp.MustCompile(`(?i)^\s*(VAR(_GLOBAL|_INPUT|_OUTPUT|_TEMP)?|END_VAR)\b`)
	declRe      = regexp.MustCompile(`(?i)^\s*(` + identPat + `)\s*:\s*INT\s*:=\s*(-?\d+)\s*;`)
	varEndRe    = regexp.MustCompile(`(?i)^\s*END_VAR\b`)
	elseRe      = regexp.MustCompile(`(?i)^\s*ELSE\s*$`)
	endIfRe     = regexp.MustCompile(`(?i)^\s*END_IF\s*;?\s*$`)
)

// IsStepIdent reports whether the identifier follows the step naming
// convention (STATE_ prefix, case-insensitive).
func IsStepIdent(name string) bool {
	return stepIdentRe.MatchString(name)
}

// Matchers is the set of line patterns compiled around one detected
// state variable. Compile once per parse; the variable name is baked
// into the patterns.
type Matchers struct {
	StateVar string

	header  *regexp.Regexp
	inline  *regexp.Regexp
	ifOpen  *regexp.Regexp
	assign  *regexp.Regexp
	sentGrd *regexp.Regexp
}

// NewMatchers compiles the matcher set for stateVar. The variable is
// matched case-insensitively, as ST identifiers are.
func NewMatchers(stateVar string) *Matchers {
	v := regexp.QuoteMeta(stateVar)
	return &Matchers{
		StateVar: stateVar,
		header:   regexp.MustCompile(fmt.Sprintf(`(?i)^\s*(IF|ELSIF)\s+%s\s*=\s*(%s)\s+THEN\s*$`, v, identPat)),
		inline:   regexp.MustCompile(fmt.Sprintf(`(?i)^\s*IF\s+(.+?)\s+THEN\s+%s\s*:=\s*(%s)\s*;\s*END_IF\s*;?\s*(?:\(\*.*\*\)\s*)?$`, v, identPat)),
		ifOpen:   regexp.MustCompile(`(?i)^\s*(IF|ELSIF)\s+(.+?)\s+THEN\s*(?:\(\*.*\*\)\s*)?$`),
		assign:   regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s\s*:=\s*(%s)\s*;\s*(?:\(\*.*\*\)\s*)?$`, v, identPat)),
		sentGrd:  regexp.MustCompile(fmt.Sprintf(`(?i)^%s\s*=\s*-\s*1$`, v)),
	}
}

// SentinelGuard reports whether the guard text is the uninitialized
// sentinel comparison (state-var = -1).
func (m *Matchers) SentinelGuard(guard string) bool {
	return m.sentGrd.MatchString(strings.TrimSpace(guard))
}

// Classify matches one line against the fixed pattern order: blank,
// qualifier marker, pure comment, variable-block boilerplate,
// declaration, step header, inline transition, if-open, else, end-if,
// bare assignment, other.
func (m *Matchers) Classify(line string) Line {
	out := Line{Kind: KindOther}

	if pm := priorityRe.FindStringSubmatch(line); pm != nil {
		if n, err := strconv.Atoi(pm[1]); err == nil {
			out.Priority = n
			out.HasPriority = true
		}
	}

	switch trimmed := strings.TrimSpace(line); {
	case trimmed == "":
		out.Kind = KindBlank
		return out
	case qualifierRe.MatchString(line):
		sub := qualifierRe.FindStringSubmatch(line)
		out.Kind = KindQualifier
		out.Qual = sub[1]
		out.Duration = sub[2]
		out.Rest = strings.TrimSpace(sub[3])
		return out
	case commentRe.MatchString(line):
		out.Kind = KindComment
		return out
	case varBlockRe.MatchString(line):
		out.Kind = KindVarBlock
		out.VarEnd = varEndRe.MatchString(line)
		return out
	}

	if sub := declRe.FindStringSubmatch(line); sub != nil {
		out.Kind = KindDecl
		out.Ident = sub[1]
		// declRe only admits a valid integer literal
		out.Value, _ = strconv.ParseInt(sub[2], 10, 64)
		return out
	}
	if sub := m.header.FindStringSubmatch(line); sub != nil {
		out.Kind = KindStepHeader
		out.Elsif = strings.EqualFold(sub[1], "ELSIF")
		out.Target = sub[2]
		return out
	}
	if sub := m.inline.FindStringSubmatch(line); sub != nil {
		out.Kind = KindInlineTransition
		out.Guard = strings.TrimSpace(sub[1])
		out.Target = sub[2]
		return out
	}
	if sub := m.ifOpen.FindStringSubmatch(line); sub != nil {
		out.Kind = KindIfOpen
		out.Elsif = strings.EqualFold(sub[1], "ELSIF")
		out.Guard = strings.TrimSpace(sub[2])
		return out
	}
	if elseRe.MatchString(line) {
		out.Kind = KindElse
		return out
	}
	if endIfRe.MatchString(line) {
		out.Kind = KindEndIf
		return out
	}
	if sub := m.assign.FindStringSubmatch(line); sub != nil {
		out.Kind = KindAssign
		out.Target = sub[1]
		return out
	}
	return out
}
