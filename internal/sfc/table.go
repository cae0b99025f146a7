package sfc

import "strings"

// ConstantTable maps step identifiers to their declared integer values,
// in declaration order. The table is the sole authority on known steps:
// a computed transition target absent from it is not recorded. Lookups
// are case-insensitive, the dialect's identifiers are; the declared
// spelling is preserved for display and edits.
type ConstantTable struct {
	names  []string
	values map[string]int64
}

func foldIdent(name string) string {
	return strings.ToUpper(name)
}

func NewConstantTable() *ConstantTable {
	return &ConstantTable{values: make(map[string]int64)}
}

// Add records a step constant. The first declaration of a name wins;
// duplicates, in any spelling, are ignored and reported by the caller.
func (t *ConstantTable) Add(name string, value int64) bool {
	if _, exists := t.values[foldIdent(name)]; exists {
		return false
	}
	t.names = append(t.names, name)
	t.values[foldIdent(name)] = value
	return true
}

func (t *ConstantTable) Len() int {
	return len(t.names)
}

// Names returns identifiers in declaration order, as declared.
func (t *ConstantTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *ConstantTable) Has(name string) bool {
	_, ok := t.values[foldIdent(name)]
	return ok
}

func (t *ConstantTable) Value(name string) (int64, bool) {
	v, ok := t.values[foldIdent(name)]
	return v, ok
}

// ByValue returns the first declared name carrying the given value.
func (t *ConstantTable) ByValue(value int64) (string, bool) {
	for _, name := range t.names {
		if t.values[foldIdent(name)] == value {
			return name, true
		}
	}
	return "", false
}

// MaxValue returns the largest declared value, or 0 for an empty table.
func (t *ConstantTable) MaxValue() int64 {
	var max int64
	for _, name := range t.names {
		if v := t.values[foldIdent(name)]; v > max {
			max = v
		}
	}
	return max
}
