package extsort

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/s2"

	"github.com/kestreldata/rowgraph/row"
)

// chunkFile is one spilled, sorted run of rows on disk: gob-encoded rows
// behind an s2 compression layer, named with a UUID so concurrent sorters
// sharing a scratch directory never collide.
type chunkFile struct {
	path string
}

func writeChunk(dir string, rows []row.Row) (*chunkFile, error) {
	name := filepath.Join(dir, uuid.New().String()+".chunk")
	f, err := os.Create(name)
	if err != nil {
		return nil, row.IoErr("Sort", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	cw := s2.NewWriter(bw)
	enc := gob.NewEncoder(cw)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			cw.Close()
			return nil, row.IoErr("Sort", err)
		}
	}
	if err := cw.Close(); err != nil {
		return nil, row.IoErr("Sort", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, row.IoErr("Sort", err)
	}
	return &chunkFile{path: name}, nil
}

func (c *chunkFile) remove() error {
	return os.Remove(c.path)
}

// chunkReader reads rows back out of a chunkFile in the order they were
// written.
type chunkReader struct {
	f   *os.File
	cr  *s2.Reader
	dec *gob.Decoder
}

func openChunk(c *chunkFile) (*chunkReader, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, row.IoErr("Sort", err)
	}
	cr := s2.NewReader(bufio.NewReader(f))
	return &chunkReader{f: f, cr: cr, dec: gob.NewDecoder(cr)}, nil
}

func (r *chunkReader) next() (row.Row, error) {
	var out row.Row
	if err := r.dec.Decode(&out); err != nil {
		if err == io.EOF {
			return row.Row{}, io.EOF
		}
		return row.Row{}, row.IoErr("Sort", err)
	}
	return out, nil
}

func (r *chunkReader) close() error {
	return r.f.Close()
}
