package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stchart/internal/diag"
	"stchart/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
	dimColor  = color.New(color.Faint)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// Pretty renders diagnostics against their snapshot. Call bag.Sort()
// beforehand for a stable order. Each finding prints as
//
//	<name>:<lines>: <SEV> <CODE>: <message> (steps: ...)
//
// followed by the covered source lines and, optionally, notes.
func Pretty(w io.Writer, snap *source.Snapshot, bag *diag.Bag, opts PrettyOpts) {
	for _, d := range bag.Items() {
		head := fmt.Sprintf("%s:%s:", snap.Name, d.Primary.String())
		fmt.Fprintf(w, "%s %s %s: %s",
			paint(posColor, opts.Color, head),
			paint(severityColor(d.Severity), opts.Color, d.Severity.String()),
			d.Code.ID(),
			d.Message)
		if len(d.Steps) > 0 {
			fmt.Fprintf(w, " %s", paint(dimColor, opts.Color, "(steps: "+strings.Join(d.Steps, ", ")+")"))
		}
		fmt.Fprintln(w)

		echoRange(w, snap, d.Primary, opts)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "    %s %s:%s: %s\n",
					paint(dimColor, opts.Color, "note:"), snap.Name, n.Range.String(), n.Msg)
			}
		}
	}
}

// echoRange prints the source lines of r with a line-number gutter,
// capped to opts.context() lines.
func echoRange(w io.Writer, snap *source.Snapshot, r source.LineRange, opts PrettyOpts) {
	if !snap.Owns(r) || r.Empty() {
		return
	}
	limit := opts.context()
	first, end := int(r.First), int(r.End)
	truncated := false
	if end-first > limit {
		end = first + limit
		truncated = true
	}
	for i := first; i < end; i++ {
		line := snap.Line(i)
		if opts.MaxWidth > 0 {
			line = runewidth.Truncate(line, opts.MaxWidth, "…")
		}
		gutter := fmt.Sprintf("%5d | ", i+1)
		fmt.Fprintf(w, "%s%s\n", paint(dimColor, opts.Color, gutter), line)
	}
	if truncated {
		fmt.Fprintf(w, "%s\n", paint(dimColor, opts.Color, "      | ..."))
	}
}

// Short renders one line per finding, grep-friendly.
func Short(w io.Writer, snap *source.Snapshot, bag *diag.Bag) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s:%s: %s %s: %s\n",
			snap.Name, d.Primary.String(), d.Severity.String(), d.Code.ID(), d.Message)
	}
}
