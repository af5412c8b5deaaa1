package rowio_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
	"github.com/kestreldata/rowgraph/rowio"
)

func parseCSVLine(line string) (row.Row, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return row.Row{}, fmt.Errorf("want 2 fields, got %d", len(fields))
	}
	n, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return row.Row{}, err
	}
	return row.New().With("name", row.Str(fields[0])).With("score", row.Int(n)), nil
}

func TestFileFactoryReadsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(path, []byte("alice,10\nbob,20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := rowio.FileFactory(path, parseCSVLine)()
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ops.Drain(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	v, _ := rows[0].Get("name")
	if s, _ := v.AsStr(); s != "alice" {
		t.Fatalf("rows[0].name = %q, want alice", s)
	}
}

func TestFileFactoryDoesNotOpenUntilFirstNext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.csv")
	_, err := rowio.FileFactory(path, parseCSVLine)()
	if err != nil {
		t.Fatalf("factory invocation should not touch the filesystem, got %v", err)
	}
}

func TestFileFactoryParseErrorClosesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("not-enough-fields\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := rowio.FileFactory(path, parseCSVLine)()
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Next()
	if err == nil {
		t.Fatal("want parse error, got nil")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close after error should be a no-op, got %v", err)
	}
}
