package row

import (
	"bytes"
	"encoding/gob"
)

// entry is one column/value pair in a Row's insertion order.
type entry struct {
	col string
	val Value
}

// Row is an open, insertion-ordered column->value mapping. It carries no
// schema: operators read and write columns by name and fail with a
// MissingColumn error at the point a required column turns out to be
// absent. Row is copy-on-write — every method that would mutate a Python
// dict in place instead returns a new Row, so two rows can never alias
// each other's columns after a Split or a Project.
type Row struct {
	entries []entry
}

// New returns an empty row.
func New() Row {
	return Row{}
}

// FromMap builds a Row from a plain map, in the iteration order Go gives
// map iteration (undefined); prefer building rows with repeated With calls
// when order matters to a test or example.
func FromMap(m map[string]Value) Row {
	r := Row{entries: make([]entry, 0, len(m))}
	for k, v := range m {
		r.entries = append(r.entries, entry{k, v})
	}
	return r
}

// Get returns the value of col and whether it was present.
func (r Row) Get(col string) (Value, bool) {
	for _, e := range r.entries {
		if e.col == col {
			return e.val, true
		}
	}
	return Value{}, false
}

// Has reports whether col is present.
func (r Row) Has(col string) bool {
	_, ok := r.Get(col)
	return ok
}

// MustGet returns the value of col, or a MissingColumn error tagged with
// op if it isn't present.
func (r Row) MustGet(op, col string) (Value, error) {
	v, ok := r.Get(col)
	if !ok {
		return Value{}, MissingColumnErr(op, col)
	}
	return v, nil
}

// With returns a new Row with col set to v, preserving the position of
// col if it already existed or appending it at the end otherwise.
func (r Row) With(col string, v Value) Row {
	out := make([]entry, len(r.entries))
	copy(out, r.entries)
	for i := range out {
		if out[i].col == col {
			out[i].val = v
			return Row{entries: out}
		}
	}
	out = append(out, entry{col, v})
	return Row{entries: out}
}

// Without returns a new Row with the named columns removed.
func (r Row) Without(cols ...string) Row {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	out := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if !drop[e.col] {
			out = append(out, e)
		}
	}
	return Row{entries: out}
}

// Columns returns the row's column names in insertion order.
func (r Row) Columns() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.col
	}
	return out
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.entries) }

// Copy returns a Row with an independent backing array, so the caller can
// hand this one out and keep mutating a builder of their own (With always
// does this already; Copy exists for callers, like stdops.Split, that fork
// a row and then want to overwrite one column on each fork without the
// forks sharing storage).
func (r Row) Copy() Row {
	out := make([]entry, len(r.entries))
	copy(out, r.entries)
	return Row{entries: out}
}

// Project returns a new row containing only the named columns, in the
// order requested. It fails with MissingColumn if any named column is
// absent.
func (r Row) Project(op string, cols []string) (Row, error) {
	out := make([]entry, 0, len(cols))
	for _, c := range cols {
		v, ok := r.Get(c)
		if !ok {
			return Row{}, MissingColumnErr(op, c)
		}
		out = append(out, entry{c, v})
	}
	return Row{entries: out}, nil
}

// gobEntry mirrors entry with exported fields so Row can round-trip
// through encoding/gob in extsort's scratch files.
type gobEntry struct {
	Col string
	Val Value
}

func (r Row) GobEncode() ([]byte, error) {
	out := make([]gobEntry, len(r.entries))
	for i, e := range r.entries {
		out[i] = gobEntry{Col: e.col, Val: e.val}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Row) GobDecode(data []byte) error {
	var in []gobEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&in); err != nil {
		return err
	}
	entries := make([]entry, len(in))
	for i, e := range in {
		entries[i] = entry{col: e.Col, val: e.Val}
	}
	r.entries = entries
	return nil
}

// Key is the ordered tuple of values extracted from a row by a column
// list; it is the ordering key for Sort, Reduce, and Join.
type Key []Value

// KeyTuple extracts the key tuple for cols from r, failing with
// MissingColumn (tagged with op) if any key column is absent.
func KeyTuple(op string, cols []string, r Row) (Key, error) {
	k := make(Key, len(cols))
	for i, c := range cols {
		v, ok := r.Get(c)
		if !ok {
			return nil, MissingColumnErr(op, c)
		}
		k[i] = v
	}
	return k, nil
}

// Compare lexicographically orders two key tuples of equal length, failing
// with NotComparable (tagged with op) at the first pair of values that
// can't be ordered against each other.
func (k Key) Compare(op string, other Key) (int, error) {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		c, err := k[i].Compare(other[i])
		if err != nil {
			return 0, NotComparableErr(op, err)
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(k) < len(other):
		return -1, nil
	case len(k) > len(other):
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports key-tuple equality, treating incomparable pairs as unequal
// rather than erroring — used by the grouping cursor, which only needs to
// know "same group or not."
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if !k[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
