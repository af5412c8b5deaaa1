package ops

import (
	"io"

	"github.com/kestreldata/rowgraph/row"
)

// Joiner decides, for a given join key, which rows to emit given the
// left-side and right-side groups sharing that key — possibly empty on
// one side, never on both. Implementations share the pairwise
// column-combination rule via JoinRowPair/CrossProduct and differ only in
// which empty-side cases they emit rows for (see the standard Inner,
// Outer, Left, and Right joiners in package stdops).
type Joiner interface {
	Join(keys []string, left, right []row.Row) ([]row.Row, error)
}

// JoinerFunc adapts a plain function to a Joiner.
type JoinerFunc func(keys []string, left, right []row.Row) ([]row.Row, error)

func (f JoinerFunc) Join(keys []string, left, right []row.Row) ([]row.Row, error) {
	return f(keys, left, right)
}

// JoinRowPair combines one left row and one right row under the pairwise
// rule: columns in keys are copied once, unsuffixed; columns present on
// both sides outside keys are disambiguated with suffixLeft/suffixRight;
// columns exclusive to either side pass through unchanged.
func JoinRowPair(keys []string, left, right row.Row, suffixLeft, suffixRight string) row.Row {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	out := row.New()
	for _, c := range left.Columns() {
		lv, _ := left.Get(c)
		if isKey[c] || !right.Has(c) {
			out = out.With(c, lv)
			continue
		}
		rv, _ := right.Get(c)
		out = out.With(c+suffixLeft, lv)
		out = out.With(c+suffixRight, rv)
	}
	for _, c := range right.Columns() {
		if !left.Has(c) {
			rv, _ := right.Get(c)
			out = out.With(c, rv)
		}
	}
	return out
}

// CrossProduct returns the join of every left row against every right row,
// in (left-input-order x right-input-order) order, via JoinRowPair. If
// either side is empty it returns the other side unmodified — the shared
// "pass the non-empty side through" behavior the outer, left, and right
// strategies use for the one-sided groups they keep (inner keeps none).
func CrossProduct(keys []string, left, right []row.Row, suffixLeft, suffixRight string) []row.Row {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	out := make([]row.Row, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			out = append(out, JoinRowPair(keys, l, r, suffixLeft, suffixRight))
		}
	}
	return out
}

// JoinOp walks two streams already sorted ascending on Keys in lockstep,
// grouping each by Keys, and invokes Joiner once per distinct key observed
// on either side — draining whichever side runs ahead with empty-opposite
// invocations once the other side is exhausted. This is the sort-merge
// join: no hash table over the whole of either input is ever built, only
// the two groups that currently match are materialized.
type JoinOp struct {
	Joiner Joiner
	Keys   []string
}

func (o JoinOp) Apply(left, right Stream) Stream {
	return &joinStream{
		op:    o,
		left:  newGroupCursor("Join", o.Keys, left),
		right: newGroupCursor("Join", o.Keys, right),
	}
}

type joinStream struct {
	op    JoinOp
	left  *groupCursor
	right *groupCursor

	leftKey, rightKey     row.Key
	leftGroup, rightGroup []row.Row
	leftDone, rightDone   bool
	started               bool

	pending []row.Row
}

func (s *joinStream) advanceLeft() error {
	k, g, err := s.left.next()
	if err == io.EOF {
		s.leftDone = true
		return nil
	}
	if err != nil {
		return err
	}
	s.leftKey, s.leftGroup = k, g
	return nil
}

func (s *joinStream) advanceRight() error {
	k, g, err := s.right.next()
	if err == io.EOF {
		s.rightDone = true
		return nil
	}
	if err != nil {
		return err
	}
	s.rightKey, s.rightGroup = k, g
	return nil
}

func (s *joinStream) Next() (row.Row, error) {
	for len(s.pending) == 0 {
		if !s.started {
			s.started = true
			if err := s.advanceLeft(); err != nil {
				return row.Row{}, err
			}
			if err := s.advanceRight(); err != nil {
				return row.Row{}, err
			}
		}

		if s.leftDone && s.rightDone {
			return row.Row{}, io.EOF
		}

		cmp := 0
		if !s.leftDone && !s.rightDone {
			var err error
			cmp, err = s.leftKey.Compare("Join", s.rightKey)
			if err != nil {
				return row.Row{}, err
			}
		}

		var out []row.Row
		var err error
		switch {
		case s.rightDone || (!s.leftDone && cmp < 0):
			out, err = s.op.Joiner.Join(s.op.Keys, s.leftGroup, nil)
			if err == nil {
				err = s.advanceLeft()
			}
		case s.leftDone || cmp > 0:
			out, err = s.op.Joiner.Join(s.op.Keys, nil, s.rightGroup)
			if err == nil {
				err = s.advanceRight()
			}
		default:
			out, err = s.op.Joiner.Join(s.op.Keys, s.leftGroup, s.rightGroup)
			if err == nil {
				if err = s.advanceLeft(); err == nil {
					err = s.advanceRight()
				}
			}
		}
		if err != nil {
			return row.Row{}, UserErrFrom("Join", err)
		}
		s.pending = out
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, nil
}

func (s *joinStream) Close() error {
	err1 := s.left.Close()
	err2 := s.right.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
