package driver

import (
	"fmt"

	"stchart/internal/analyze"
	"stchart/internal/diag"
	"stchart/internal/parse"
	"stchart/internal/sfc"
	"stchart/internal/source"
)

// DefaultMaxDiagnostics bounds the bag when the caller does not.
const DefaultMaxDiagnostics = 256

// Options carries everything the pipeline needs; the zero value uses
// the detector and analyzer defaults.
type Options struct {
	// StateVar pins the state variable instead of detecting it.
	StateVar string
	// MaxBlockScan bounds multi-line transition matching.
	MaxBlockScan int
	// MaxNesting is the analyzer's conditional depth limit.
	MaxNesting int
	// TerminalPattern overrides the deadlock suppression pattern.
	TerminalPattern string
	// MaxDiagnostics caps the bag, 0 - DefaultMaxDiagnostics.
	MaxDiagnostics int

	// Cache, when non-nil, short-circuits CheckFile on content hash.
	Cache *DiskCache
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result bundles one file's pipeline output.
type Result struct {
	Snapshot *source.Snapshot
	Chart    *sfc.Chart
	Bag      *diag.Bag

	// CacheHit is set when diagnostics came from the disk cache; Chart
	// is still rebuilt, parsing is cheap and positions must be fresh.
	CacheHit bool
}

// ParseText runs detection and parsing only.
func ParseText(name, text string, opts Options) *Result {
	snap := source.New(name, text)
	chart := parse.Parse(snap, parse.Options{
		StateVar:     opts.StateVar,
		MaxBlockScan: opts.MaxBlockScan,
	})
	return &Result{Snapshot: snap, Chart: chart}
}

// CheckText runs the whole pipeline over in-memory text.
func CheckText(name, text string, opts Options) *Result {
	res := ParseText(name, text, opts)
	bag := diag.NewBag(opts.maxDiagnostics())
	analyze.Analyze(res.Snapshot, res.Chart, analyze.Options{
		MaxNesting:      opts.MaxNesting,
		TerminalPattern: opts.TerminalPattern,
	}, diag.BagReporter{Bag: bag})
	bag.Sort()
	bag.Dedup()
	res.Bag = bag
	return res
}

// CheckFile loads, parses and analyzes one file. With a cache attached
// the analysis is skipped on a content hit; the chart is rebuilt either
// way so every range is bound to the fresh snapshot.
func CheckFile(path string, opts Options) (*Result, error) {
	snap, err := source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if opts.Cache != nil {
		if res, ok := opts.Cache.lookup(snap, opts); ok {
			return res, nil
		}
	}

	res := CheckText(snap.Name, snap.Content, opts)
	res.Snapshot.Flags = snap.Flags

	if opts.Cache != nil {
		if err := opts.Cache.store(res, opts); err != nil {
			// кеш — ускорение, не корректность
			return res, nil
		}
	}
	return res, nil
}

// ParseFile loads and parses one file without analysis.
func ParseFile(path string, opts Options) (*Result, error) {
	snap, err := source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res := ParseText(snap.Name, snap.Content, opts)
	res.Snapshot.Flags = snap.Flags
	return res, nil
}
