package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stchart/internal/sfc"
	"stchart/internal/source"
)

var (
	stepColor    = color.New(color.FgGreen, color.Bold)
	initialColor = color.New(color.FgMagenta, color.Bold)
)

// ChartPretty renders the recovered graph: one block per step with its
// transitions in priority order and its actions. An empty chart prints
// a single "no steps" line, which is a valid result, not an error.
func ChartPretty(w io.Writer, snap *source.Snapshot, chart *sfc.Chart, opts PrettyOpts) {
	if chart.Empty() {
		fmt.Fprintf(w, "%s: no steps recognized\n", snap.Name)
		return
	}
	fmt.Fprintf(w, "%s: state variable %q, %d steps, %d transitions\n",
		snap.Name, chart.StateVar, len(chart.Steps), chart.TransitionCount())

	nameWidth := 0
	for _, s := range chart.Steps {
		if w := runewidth.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for _, s := range chart.Steps {
		c, mark := stepColor, " "
		if s.Kind == sfc.StepInitial {
			c, mark = initialColor, "*"
		}
		padded := s.Name + strings.Repeat(" ", nameWidth-runewidth.StringWidth(s.Name))
		fmt.Fprintf(w, "  %s %s = %-3d", mark, paint(c, opts.Color, padded), s.Value)
		if s.Label != s.Name {
			fmt.Fprintf(w, " %q", s.Label)
		}
		if !s.Body.Empty() {
			fmt.Fprintf(w, "  %s", paint(dimColor, opts.Color, "lines "+s.Body.String()))
		}
		fmt.Fprintln(w)

		for _, tr := range s.Transitions {
			pri := fmt.Sprintf("pri %d", tr.Priority)
			if !tr.Explicit {
				pri += " (implicit)"
			}
			fmt.Fprintf(w, "      -> %s  when %s  [%s]\n", tr.Target, tr.Guard, pri)
		}
		for _, act := range s.Actions {
			dur := ""
			if act.Duration != "" {
				dur = " " + act.Duration
			}
			fmt.Fprintf(w, "      %s %s\n",
				paint(dimColor, opts.Color, fmt.Sprintf("[%s%s]", act.Qualifier, dur)), firstLine(act.Body))
		}
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}

// ActionJSON, TransitionJSON, StepJSON and ChartJSON mirror the chart
// for machine consumption.
type ActionJSON struct {
	Qualifier string `json:"qualifier"`
	Duration  string `json:"duration,omitempty"`
	Body      string `json:"body,omitempty"`
}

type TransitionJSON struct {
	Target   string `json:"target"`
	Guard    string `json:"guard"`
	Priority int    `json:"priority"`
	Explicit bool   `json:"explicit,omitempty"`
}

type StepJSON struct {
	Name        string           `json:"name"`
	Label       string           `json:"label,omitempty"`
	Value       int64            `json:"value"`
	Initial     bool             `json:"initial,omitempty"`
	Location    LocationJSON     `json:"location"`
	Transitions []TransitionJSON `json:"transitions,omitempty"`
	Actions     []ActionJSON     `json:"actions,omitempty"`
}

type ChartJSON struct {
	File     string     `json:"file"`
	StateVar string     `json:"state_var"`
	Steps    []StepJSON `json:"steps"`
}

// BuildChartOutput формирует JSON-представление графа.
func BuildChartOutput(snap *source.Snapshot, chart *sfc.Chart) ChartJSON {
	out := ChartJSON{
		File:     snap.Name,
		StateVar: chart.StateVar,
		Steps:    make([]StepJSON, 0, len(chart.Steps)),
	}
	for _, s := range chart.Steps {
		sj := StepJSON{
			Name:     s.Name,
			Value:    s.Value,
			Initial:  s.Kind == sfc.StepInitial,
			Location: makeLocation(snap, s.Body),
		}
		if s.Label != s.Name {
			sj.Label = s.Label
		}
		for _, tr := range s.Transitions {
			sj.Transitions = append(sj.Transitions, TransitionJSON{
				Target:   tr.Target,
				Guard:    tr.Guard,
				Priority: tr.Priority,
				Explicit: tr.Explicit,
			})
		}
		for _, act := range s.Actions {
			sj.Actions = append(sj.Actions, ActionJSON{
				Qualifier: act.Qualifier.String(),
				Duration:  act.Duration,
				Body:      act.Body,
			})
		}
		out.Steps = append(out.Steps, sj)
	}
	return out
}

// ChartJSONTo сериализует граф с отступами.
func ChartJSONTo(w io.Writer, snap *source.Snapshot, chart *sfc.Chart) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildChartOutput(snap, chart))
}
