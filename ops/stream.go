// Package ops implements the operator algebra a rowgraph graph is built
// from: the Mapper/Reducer/Joiner plug-in contracts, the generic drivers
// that run them over a row stream (Map, Reduce, Join), and the pull-based
// Stream cursor the whole engine communicates through.
package ops

import (
	"io"

	"github.com/kestreldata/rowgraph/row"
)

// Stream is a finite, single-pass, pull-based sequence of rows. Next
// returns io.EOF once exhausted. Close releases any resources the stream
// holds (an open file, external-sort scratch files); it must be safe to
// call more than once and must be called even if the caller stops pulling
// before EOF.
//
// The shape mirrors the teacher's xsv.RowChopper.GetNext(r io.Reader)
// ([]string, error): a synchronous cursor that returns one record or an
// end-of-input error, with no channel or goroutine machinery needed to
// drive it.
type Stream interface {
	Next() (row.Row, error)
	Close() error
}

// Factory produces a fresh Stream. The engine calls a bound source's
// Factory exactly once per Run.
type Factory func() (Stream, error)

// sliceStream adapts an in-memory slice of rows to Stream; Close is a
// no-op since there's no external resource to release.
type sliceStream struct {
	rows []row.Row
	pos  int
}

// FromSlice returns a Stream over an in-memory slice of rows, useful for
// tests, for binding literal data to a source, and as the group view
// Reduce hands to a Reducer.
func FromSlice(rows []row.Row) Stream {
	return &sliceStream{rows: rows}
}

func (s *sliceStream) Next() (row.Row, error) {
	if s.pos >= len(s.rows) {
		return row.Row{}, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *sliceStream) Close() error { return nil }

// Drain pulls every remaining row out of s and closes it, returning them
// as a slice. Used where a caller genuinely needs the whole stream
// materialized (Graph.Run's result, reducers that read their whole group).
func Drain(s Stream) ([]row.Row, error) {
	var out []row.Row
	for {
		r, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.Close()
			return nil, err
		}
		out = append(out, r)
	}
	return out, s.Close()
}
