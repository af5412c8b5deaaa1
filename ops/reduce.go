package ops

import (
	"github.com/kestreldata/rowgraph/row"
)

// Reducer produces zero or more output rows from a non-empty group of
// rows that all share the same key tuple on K. It may depend only on K and
// the group, never on rows outside it.
type Reducer interface {
	Reduce(key row.Key, group Stream) ([]row.Row, error)
}

// ReducerFunc adapts a plain function to a Reducer.
type ReducerFunc func(key row.Key, group Stream) ([]row.Row, error)

func (f ReducerFunc) Reduce(key row.Key, group Stream) ([]row.Row, error) { return f(key, group) }

// ReduceOp splits its input into maximal runs of rows sharing the same key
// tuple on Keys and invokes Reducer once per run, concatenating the
// results. Its precondition — input sorted ascending on Keys — is the
// caller's responsibility; ReduceOp does not verify it.
type ReduceOp struct {
	Reducer Reducer
	Keys    []string
}

func (o ReduceOp) Apply(in Stream) Stream {
	return &reduceStream{op: o, cursor: newGroupCursor("Reduce", o.Keys, in)}
}

type reduceStream struct {
	op      ReduceOp
	cursor  *groupCursor
	pending []row.Row
}

func (s *reduceStream) Next() (row.Row, error) {
	for len(s.pending) == 0 {
		key, group, err := s.cursor.next()
		if err != nil {
			return row.Row{}, err
		}
		out, err := s.op.Reducer.Reduce(key, FromSlice(group))
		if err != nil {
			return row.Row{}, UserErrFrom("Reduce", err)
		}
		s.pending = out
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, nil
}

func (s *reduceStream) Close() error { return s.cursor.Close() }
