// Package rowio implements the optional file-backed Factory: a line-at-a-
// time text source that only opens its file once the graph actually pulls
// from it, and that releases the handle on EOF, parse failure, or an early
// Close.
package rowio

import (
	"bufio"
	"io"
	"os"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

// LineParser turns one line of text into a row, or reports why it
// couldn't.
type LineParser func(line string) (row.Row, error)

// FileFactory returns an ops.Factory that reads path line by line via
// bufio.Scanner, converting each line with parse. The file isn't opened
// until the returned stream's first Next call, mirroring the teacher's
// xsv.Convert pattern of driving a RowChopper over a reader that the
// caller controls the lifetime of — except here the stream owns its own
// *os.File and opens it lazily instead of requiring the caller to pass one
// in up front.
func FileFactory(path string, parse LineParser) ops.Factory {
	return func() (ops.Stream, error) {
		return &fileStream{path: path, parse: parse}, nil
	}
}

type fileStream struct {
	path   string
	parse  LineParser
	f      *os.File
	sc     *bufio.Scanner
	opened bool
	closed bool
}

func (s *fileStream) ensureOpen() error {
	if s.opened {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return row.IoErr("rowio.File", err)
	}
	s.f = f
	s.sc = bufio.NewScanner(f)
	s.opened = true
	return nil
}

func (s *fileStream) Next() (row.Row, error) {
	if s.closed {
		return row.Row{}, io.EOF
	}
	if err := s.ensureOpen(); err != nil {
		s.Close()
		return row.Row{}, err
	}
	if !s.sc.Scan() {
		err := s.sc.Err()
		s.Close()
		if err != nil {
			return row.Row{}, row.IoErr("rowio.File", err)
		}
		return row.Row{}, io.EOF
	}
	r, err := s.parse(s.sc.Text())
	if err != nil {
		s.Close()
		return row.Row{}, ops.UserErrFrom("rowio.File", err)
	}
	return r, nil
}

func (s *fileStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
