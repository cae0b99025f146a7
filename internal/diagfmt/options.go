package diagfmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// Context caps how many source lines of the primary range are
	// echoed under each finding; 0 falls back to DefaultContext.
	Context int
	// MaxWidth truncates echoed source lines, 0 - не ограничено.
	MaxWidth  int
	ShowNotes bool
}

// DefaultContext is the number of echoed source lines per finding.
const DefaultContext = 3

func (o PrettyOpts) context() int {
	if o.Context <= 0 {
		return DefaultContext
	}
	return o.Context
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	Max int // обрезка вывода, не Bag
}
