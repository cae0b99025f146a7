package source

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/google/uuid"
)

// ErrStaleRange is returned when a range is applied against a snapshot
// it was not derived from.
var ErrStaleRange = errors.New("source: range does not belong to this snapshot")

// LineRange is a half-open range of lines [First, End) bound to the
// snapshot it was derived from. Construct ranges through Snapshot.Range
// or Snapshot.At so the binding cannot be forged.
type LineRange struct {
	Snap  uuid.UUID
	First uint32
	End   uint32
}

// Range clamps [first, end) to the snapshot and binds it.
func (s *Snapshot) Range(first, end int) LineRange {
	if first < 0 {
		first = 0
	}
	if end < first {
		end = first
	}
	if end > len(s.lines) {
		end = len(s.lines)
		if first > end {
			first = end
		}
	}
	f, err := safecast.Conv[uint32](first)
	if err != nil {
		panic(fmt.Errorf("range first overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("range end overflow: %w", err))
	}
	return LineRange{Snap: s.ID, First: f, End: e}
}

// At returns the single-line range covering line i.
func (s *Snapshot) At(i int) LineRange {
	return s.Range(i, i+1)
}

func (r LineRange) Empty() bool {
	return r.First >= r.End
}

func (r LineRange) Len() uint32 {
	if r.Empty() {
		return 0
	}
	return r.End - r.First
}

// Contains reports whether the 0-based line lies inside the range.
func (r LineRange) Contains(line uint32) bool {
	return line >= r.First && line < r.End
}

// Cover extends r to include other. Ranges from different snapshots do
// not mix; r is returned unchanged.
func (r LineRange) Cover(other LineRange) LineRange {
	if r.Snap != other.Snap || other.Empty() {
		return r
	}
	if r.Empty() {
		return other
	}
	if other.First < r.First {
		r.First = other.First
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// Overlaps reports whether two ranges from the same snapshot share a line.
func (r LineRange) Overlaps(other LineRange) bool {
	if r.Snap != other.Snap || r.Empty() || other.Empty() {
		return false
	}
	return r.First < other.End && other.First < r.End
}

// String renders 1-based line numbers for display.
func (r LineRange) String() string {
	if r.Empty() {
		return fmt.Sprintf("%d", r.First+1)
	}
	if r.Len() == 1 {
		return fmt.Sprintf("%d", r.First+1)
	}
	return fmt.Sprintf("%d-%d", r.First+1, r.End)
}
