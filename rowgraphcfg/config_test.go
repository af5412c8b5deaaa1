package rowgraphcfg_test

import (
	"testing"

	"github.com/kestreldata/rowgraph/rowgraphcfg"
)

func TestLoadYAML(t *testing.T) {
	doc := []byte("chunkSize: 4096\nscratchDir: /tmp/rowgraph\njoinSuffixLeft: _L\njoinSuffixRight: _R\n")
	cfg, err := rowgraphcfg.Load(doc)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkSizeOrDefault() != 4096 {
		t.Fatalf("ChunkSizeOrDefault() = %d, want 4096", cfg.ChunkSizeOrDefault())
	}
	if cfg.ScratchDirOrDefault() != "/tmp/rowgraph" {
		t.Fatalf("ScratchDirOrDefault() = %q", cfg.ScratchDirOrDefault())
	}
	l, r := cfg.JoinSuffixesOrDefault()
	if l != "_L" || r != "_R" {
		t.Fatalf("JoinSuffixesOrDefault() = %q, %q", l, r)
	}
}

func TestNilConfigUsesBuiltinDefaults(t *testing.T) {
	var cfg *rowgraphcfg.Config
	if cfg.ChunkSizeOrDefault() <= 0 {
		t.Fatal("want positive default chunk size")
	}
	if cfg.ScratchDirOrDefault() != "" {
		t.Fatal("want empty scratch dir default")
	}
	l, r := cfg.JoinSuffixesOrDefault()
	if l == "" || r == "" {
		t.Fatal("want non-empty default suffixes")
	}
}

func TestLoadRejectsUnsupportedCodec(t *testing.T) {
	_, err := rowgraphcfg.Load([]byte("codec: zstd\n"))
	if err == nil {
		t.Fatal("want error for unsupported codec")
	}
}
