package extsort

import (
	"io"
	"log"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

// run is one chunk's live cursor in the k-way merge heap: the next row it
// has buffered, the run's position among its siblings (for a stable tie
// break identical to arrival order), and a merge-wide fill counter. Two
// runs in the heap always differ in origin, so equal keys are settled by
// origin and the counter is never the deciding comparison.
type run struct {
	reader *chunkReader
	next   row.Row
	key    row.Key
	seq    int
	origin int
	done   bool
}

// mergeStream performs the k-way merge of the sorted, spilled chunk files,
// driven by the generic slice heap adapted from the teacher's heap
// package, keyed by row.Key.Compare with ties broken by chunk origin then
// arrival sequence so the merge is stable across chunk boundaries.
type mergeStream struct {
	keys    []string
	chunks  []*chunkFile
	runs    []*run
	heap    []*run
	seq     int
	mergeErr error
	started bool
	logger  *log.Logger
}

func (m *mergeStream) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

func newMergeStream(chunks []*chunkFile, keys []string, logger *log.Logger) (*mergeStream, error) {
	m := &mergeStream{keys: keys, chunks: chunks, logger: logger}
	m.runs = make([]*run, len(chunks))
	for i, c := range chunks {
		rdr, err := openChunk(c)
		if err != nil {
			m.closeReaders()
			removeAll(chunks)
			return nil, err
		}
		m.runs[i] = &run{reader: rdr, origin: i}
	}
	return m, nil
}

func (m *mergeStream) less(a, b *run) bool {
	c, err := a.key.Compare("Sort", b.key)
	if err != nil {
		if m.mergeErr == nil {
			m.mergeErr = err
		}
		return false
	}
	if c != 0 {
		return c < 0
	}
	if a.origin != b.origin {
		return a.origin < b.origin
	}
	return a.seq < b.seq
}

func (m *mergeStream) fill(r *run) error {
	next, err := r.reader.next()
	if err == io.EOF {
		r.done = true
		return nil
	}
	if err != nil {
		return err
	}
	k, err := row.KeyTuple("Sort", m.keys, next)
	if err != nil {
		return err
	}
	r.next = next
	r.key = k
	r.seq = m.seq
	m.seq++
	return nil
}

func (m *mergeStream) init() error {
	m.started = true
	for _, r := range m.runs {
		if err := m.fill(r); err != nil {
			return err
		}
		if !r.done {
			pushSlice(&m.heap, r, m.less)
		}
	}
	return nil
}

func (m *mergeStream) Next() (row.Row, error) {
	if !m.started {
		if err := m.init(); err != nil {
			m.Close()
			return row.Row{}, err
		}
	}
	if len(m.heap) == 0 {
		m.Close()
		return row.Row{}, io.EOF
	}
	r := popSlice(&m.heap, m.less)
	if m.mergeErr != nil {
		err := m.mergeErr
		m.Close()
		return row.Row{}, err
	}
	out := r.next
	if err := m.fill(r); err != nil {
		m.Close()
		return row.Row{}, err
	}
	if !r.done {
		pushSlice(&m.heap, r, m.less)
	}
	return out, nil
}

func (m *mergeStream) closeReaders() error {
	var first error
	for _, r := range m.runs {
		if r == nil || r.reader == nil {
			continue
		}
		if err := r.reader.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close releases every open scratch reader and removes the chunk files,
// idempotently: it is safe to call more than once and is always called
// once Next reports io.EOF.
func (m *mergeStream) Close() error {
	err := m.closeReaders()
	n := len(m.chunks)
	for _, c := range m.chunks {
		c.remove()
	}
	if n > 0 {
		m.logf("extsort: merge done, removed %d scratch chunk(s)", n)
	}
	m.chunks = nil
	m.runs = nil
	return err
}

var _ ops.Stream = (*mergeStream)(nil)
