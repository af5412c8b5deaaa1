// Package extsort implements the bounded-memory external sort the Sort
// operator needs: chunk the input in memory, spill sorted chunks to
// compressed scratch files once the input no longer fits in one chunk, and
// merge the runs back into a single ordered stream with a generic k-way
// heap merge.
package extsort

import (
	"io"
	"log"
	"os"

	"golang.org/x/exp/slices"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

const DefaultChunkSize = 8192

// Sorter configures an external sort over a column key.
type Sorter struct {
	// Keys are the columns rows are ordered by, lexicographically.
	Keys []string
	// ChunkSize is the number of rows held in memory per run before a
	// spill is considered. Zero means DefaultChunkSize.
	ChunkSize int
	// ScratchDir is the directory spilled runs are written under. Empty
	// means os.TempDir().
	ScratchDir string
	// Logger is the output spill and merge activity is traced to. If
	// Logger is nil, Sort logs nothing — mirroring the teacher's
	// tenant.Manager, whose nil logger field means no diagnostics.
	Logger *log.Logger
}

func (s Sorter) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s Sorter) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return DefaultChunkSize
}

func (s Sorter) scratchDir() string {
	if s.ScratchDir != "" {
		return s.ScratchDir
	}
	return os.TempDir()
}

func (s Sorter) less(a, b row.Row) (bool, error) {
	ka, err := row.KeyTuple("Sort", s.Keys, a)
	if err != nil {
		return false, err
	}
	kb, err := row.KeyTuple("Sort", s.Keys, b)
	if err != nil {
		return false, err
	}
	c, err := ka.Compare("Sort", kb)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// Sort reads every row out of in (closing it when done), sorts them by
// Keys, and returns a fresh stream over the result. Chunks that fit in
// memory never touch disk; once a second chunk is needed, every run
// (including the first) is spilled to ScratchDir and merged back with a
// k-way heap merge, so memory use stays bounded by ChunkSize regardless of
// input size.
func (s Sorter) Sort(in ops.Stream) (ops.Stream, error) {
	defer in.Close()

	chunkSize := s.chunkSize()
	var chunks []*chunkFile
	var firstChunk []row.Row
	var sortErr error

	flush := func(buf []row.Row) error {
		sorted := make([]row.Row, len(buf))
		copy(sorted, buf)
		slices.SortStableFunc(sorted, func(a, b row.Row) bool {
			lt, err := s.less(a, b)
			if err != nil && sortErr == nil {
				sortErr = err
			}
			return lt
		})
		if sortErr != nil {
			return sortErr
		}
		if chunks == nil && firstChunk == nil {
			firstChunk = sorted
			return nil
		}
		if firstChunk != nil {
			cf, err := writeChunk(s.scratchDir(), firstChunk)
			if err != nil {
				return err
			}
			s.logf("extsort: spilled chunk %s (%d rows)", cf.path, len(firstChunk))
			chunks = append(chunks, cf)
			firstChunk = nil
		}
		cf, err := writeChunk(s.scratchDir(), sorted)
		if err != nil {
			return err
		}
		s.logf("extsort: spilled chunk %s (%d rows)", cf.path, len(sorted))
		chunks = append(chunks, cf)
		return nil
	}

	buf := make([]row.Row, 0, chunkSize)
	for {
		r, err := in.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			removeAll(chunks)
			return nil, err
		}
		buf = append(buf, r)
		if len(buf) == chunkSize {
			if err := flush(buf); err != nil {
				removeAll(chunks)
				return nil, err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if err := flush(buf); err != nil {
			removeAll(chunks)
			return nil, err
		}
	}

	if firstChunk != nil && len(chunks) == 0 {
		s.logf("extsort: single chunk, %d row(s), no spill needed", len(firstChunk))
		return ops.FromSlice(firstChunk), nil
	}
	if len(chunks) == 0 {
		return ops.FromSlice(nil), nil
	}
	s.logf("extsort: merging %d spilled chunk(s)", len(chunks))
	return newMergeStream(chunks, s.Keys, s.Logger)
}

func removeAll(chunks []*chunkFile) {
	for _, c := range chunks {
		c.remove()
	}
}
