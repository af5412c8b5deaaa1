package ops

import (
	"io"

	"github.com/kestreldata/rowgraph/row"
)

// Mapper produces zero or more output rows from one input row. It must be
// pure with respect to that row: no cross-row state, no reliance on
// ordering beyond the one row it's given.
type Mapper interface {
	Map(r row.Row) ([]row.Row, error)
}

// MapperFunc adapts a plain function to a Mapper.
type MapperFunc func(r row.Row) ([]row.Row, error)

func (f MapperFunc) Map(r row.Row) ([]row.Row, error) { return f(r) }

// MapOp applies a Mapper to every row of its input stream and concatenates
// the yielded rows, preserving input order.
type MapOp struct {
	Mapper Mapper
}

func (o MapOp) Apply(in Stream) Stream {
	return &mapStream{mapper: o.Mapper, in: in}
}

type mapStream struct {
	mapper  Mapper
	in      Stream
	pending []row.Row
}

func (s *mapStream) Next() (row.Row, error) {
	for len(s.pending) == 0 {
		r, err := s.in.Next()
		if err != nil {
			return row.Row{}, err
		}
		out, err := s.mapper.Map(r)
		if err != nil {
			return row.Row{}, UserErrFrom("Map", err)
		}
		s.pending = out
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, nil
}

func (s *mapStream) Close() error { return s.in.Close() }

// UserErrFrom wraps a plug-in failure with a row.UserError unless it's
// already a tagged *row.Error (so io.EOF and already-tagged engine errors
// pass through unchanged) or io.EOF (which Stream.Next uses as the
// end-of-stream sentinel and must never be re-tagged).
func UserErrFrom(op string, err error) error {
	if err == io.EOF {
		return err
	}
	if _, ok := row.KindOf(err); ok {
		return err
	}
	return row.UserErr(op, err)
}
