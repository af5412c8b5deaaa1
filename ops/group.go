package ops

import (
	"io"

	"github.com/kestreldata/rowgraph/row"
)

// groupCursor turns a stream already sorted ascending on keys into a
// sequence of maximal same-key runs, the way Python's itertools.groupby
// drives key_func_maker(keys) over a sorted iterable. It does not verify
// sortedness; a stream that isn't actually sorted on keys will simply be
// split into more (and wrong) groups than it should.
type groupCursor struct {
	op      string
	keys    []string
	in      Stream
	lookRow row.Row
	lookKey row.Key
	have    bool
	done    bool
}

func newGroupCursor(op string, keys []string, in Stream) *groupCursor {
	return &groupCursor{op: op, keys: keys, in: in}
}

// next returns the key and every row of the next group, or io.EOF once
// the underlying stream is exhausted.
func (g *groupCursor) next() (row.Key, []row.Row, error) {
	if g.done {
		return nil, nil, io.EOF
	}
	if !g.have {
		r, err := g.in.Next()
		if err == io.EOF {
			g.done = true
			return nil, nil, io.EOF
		}
		if err != nil {
			return nil, nil, err
		}
		k, err := row.KeyTuple(g.op, g.keys, r)
		if err != nil {
			return nil, nil, err
		}
		g.lookRow, g.lookKey, g.have = r, k, true
	}

	key := g.lookKey
	group := []row.Row{g.lookRow}
	g.have = false

	for {
		r, err := g.in.Next()
		if err == io.EOF {
			g.done = true
			return key, group, nil
		}
		if err != nil {
			return nil, nil, err
		}
		k, err := row.KeyTuple(g.op, g.keys, r)
		if err != nil {
			return nil, nil, err
		}
		if !k.Equal(key) {
			g.lookRow, g.lookKey, g.have = r, k, true
			return key, group, nil
		}
		group = append(group, r)
	}
}

func (g *groupCursor) Close() error { return g.in.Close() }
