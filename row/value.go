// Package row implements the dynamic row model that flows through a
// rowgraph computation graph: an open, insertion-ordered column->value
// mapping with no global schema, plus the key-tuple machinery that
// Sort, Reduce, and Join rely on.
package row

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// Kind tags the dynamic type carried by a Value. The original library this
// model is based on lets column values be any Python object; Kind replaces
// that duck typing with an explicit, exhaustive tag.
type Kind uint8

const (
	Null Kind = iota
	IntKind
	FloatKind
	StrKind
	BoolKind
	TimeKind
	ListKind
	BlobKind
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StrKind:
		return "str"
	case BoolKind:
		return "bool"
	case TimeKind:
		return "time"
	case ListKind:
		return "list"
	case BlobKind:
		return "blob"
	default:
		return "unknown"
	}
}

// Value is a dynamically typed column value. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
	list []Value
	blob any
}

func Int(v int64) Value     { return Value{kind: IntKind, i: v} }
func Float(v float64) Value { return Value{kind: FloatKind, f: v} }
func Str(v string) Value    { return Value{kind: StrKind, s: v} }
func Bool(v bool) Value     { return Value{kind: BoolKind, b: v} }
func Time(v time.Time) Value {
	return Value{kind: TimeKind, t: v}
}

// List copies vs into the returned Value so later mutation of the caller's
// slice can't alias a row that already captured it.
func List(vs []Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: ListKind, list: cp}
}

// Blob wraps an opaque user object that the engine never interprets.
func Blob(v any) Value { return Value{kind: BlobKind, blob: v} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case IntKind:
		return v.i, true
	case FloatKind:
		return int64(v.f), true
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case FloatKind:
		return v.f, true
	case IntKind:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) AsStr() (string, bool) {
	if v.kind != StrKind {
		return "", false
	}
	return v.s, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != BoolKind {
		return false, false
	}
	return v.b, true
}

func (v Value) AsTime() (time.Time, bool) {
	if v.kind != TimeKind {
		return time.Time{}, false
	}
	return v.t, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != ListKind {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

func (v Value) AsBlob() (any, bool) {
	if v.kind != BlobKind {
		return nil, false
	}
	return v.blob, true
}

// numeric reports whether v is Int or Float.
func (v Value) numeric() bool { return v.kind == IntKind || v.kind == FloatKind }

// Compare orders two values of compatible kinds: -1, 0, or 1. Int and Float
// compare numerically against each other; every other pairing of distinct
// kinds is not comparable. Lists and blobs are never comparable.
func (v Value) Compare(other Value) (int, error) {
	if v.kind == Null && other.kind == Null {
		return 0, nil
	}
	switch {
	case v.numeric() && other.numeric():
		a, _ := v.AsFloat()
		b, _ := other.AsFloat()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case v.kind == StrKind && other.kind == StrKind:
		switch {
		case v.s < other.s:
			return -1, nil
		case v.s > other.s:
			return 1, nil
		default:
			return 0, nil
		}
	case v.kind == BoolKind && other.kind == BoolKind:
		if v.b == other.b {
			return 0, nil
		}
		if !v.b {
			return -1, nil
		}
		return 1, nil
	case v.kind == TimeKind && other.kind == TimeKind:
		switch {
		case v.t.Before(other.t):
			return -1, nil
		case v.t.After(other.t):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, &NotComparableError{A: v.kind, B: other.kind}
	}
}

// Equal reports value equality without requiring orderability; it never
// fails, unlike Compare.
func (v Value) Equal(other Value) bool {
	c, err := v.Compare(other)
	if err == nil {
		return c == 0
	}
	if v.kind == ListKind && other.kind == ListKind {
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "<null>"
	case IntKind:
		return fmt.Sprintf("%d", v.i)
	case FloatKind:
		return fmt.Sprintf("%g", v.f)
	case StrKind:
		return v.s
	case BoolKind:
		return fmt.Sprintf("%t", v.b)
	case TimeKind:
		return v.t.Format(time.RFC3339Nano)
	case ListKind:
		return fmt.Sprintf("%v", v.list)
	case BlobKind:
		return fmt.Sprintf("%v", v.blob)
	default:
		return "<unknown>"
	}
}

// NotComparableError reports that two values could not be ordered against
// each other; it is wrapped into a *Error with Kind == NotComparable by
// callers that need column/operator context.
type NotComparableError struct {
	A, B Kind
}

func (e *NotComparableError) Error() string {
	return fmt.Sprintf("values of kind %s and %s are not comparable", e.A, e.B)
}

// gobValue mirrors Value with exported fields so extsort's scratch-file
// encoding can round-trip it through encoding/gob, which never sees
// unexported struct fields. Blob values survive the round trip only if
// their concrete type was registered with gob.Register by the caller.
type gobValue struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	B    bool
	T    time.Time
	List []Value
	Blob any
}

func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobValue{Kind: v.kind, I: v.i, F: v.f, S: v.s, B: v.b, T: v.t, List: v.list, Blob: v.blob}
	if err := gob.NewEncoder(&buf).Encode(&g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) GobDecode(data []byte) error {
	var g gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	*v = Value{kind: g.Kind, i: g.I, f: g.F, s: g.S, b: g.B, t: g.T, list: g.List, blob: g.Blob}
	return nil
}
