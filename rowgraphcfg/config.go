// Package rowgraphcfg loads engine-wide defaults for a rowgraph run from
// YAML, the way a deployment overrides chunk sizing or scratch placement
// without recompiling the graph that uses them.
package rowgraphcfg

import (
	"sigs.k8s.io/yaml"

	"github.com/kestreldata/rowgraph/extsort"
	"github.com/kestreldata/rowgraph/row"
	"github.com/kestreldata/rowgraph/stdops"
)

// Config carries the defaults a Graph.Run can be given to override the
// engine's built-in choices. Every field is optional; the zero Config
// reproduces the engine's hardcoded defaults.
type Config struct {
	// ChunkSize overrides extsort.DefaultChunkSize for every Sort node in
	// the run.
	ChunkSize int `json:"chunkSize,omitempty"`
	// ScratchDir overrides os.TempDir() as the location external sort
	// spills chunk files to.
	ScratchDir string `json:"scratchDir,omitempty"`
	// Codec names the scratch-file compression codec. Only "s2" (the
	// engine's built-in, klauspost/compress-backed codec) is currently
	// supported; it exists as a config field so a future codec can be
	// selected without an API change.
	Codec string `json:"codec,omitempty"`
	// JoinSuffixLeft and JoinSuffixRight are the default column-collision
	// suffixes handed to stdops join constructors that don't specify
	// their own via WithSuffixes.
	JoinSuffixLeft  string `json:"joinSuffixLeft,omitempty"`
	JoinSuffixRight string `json:"joinSuffixRight,omitempty"`
}

// Load decodes a Config from YAML (or JSON, which is a YAML subset),
// failing with a UserError if the document doesn't match Config's shape.
func Load(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, row.UserErr("rowgraphcfg.Load", err)
	}
	if c.Codec != "" && c.Codec != "s2" {
		return nil, row.UserErr("rowgraphcfg.Load", unsupportedCodecError{c.Codec})
	}
	return &c, nil
}

// ChunkSizeOrDefault returns c's configured chunk size, or extsort.DefaultChunkSize
// if c is nil or doesn't set one.
func (c *Config) ChunkSizeOrDefault() int {
	if c == nil || c.ChunkSize <= 0 {
		return extsort.DefaultChunkSize
	}
	return c.ChunkSize
}

// ScratchDirOrDefault returns c's configured scratch directory, or "" (the
// extsort package's own default, os.TempDir()) if c is nil or doesn't set
// one.
func (c *Config) ScratchDirOrDefault() string {
	if c == nil {
		return ""
	}
	return c.ScratchDir
}

// JoinSuffixesOrDefault returns c's configured join suffixes, or
// stdops.DefaultSuffixLeft/Right if c is nil or doesn't set them.
func (c *Config) JoinSuffixesOrDefault() (left, right string) {
	left, right = stdops.DefaultSuffixLeft, stdops.DefaultSuffixRight
	if c == nil {
		return left, right
	}
	if c.JoinSuffixLeft != "" {
		left = c.JoinSuffixLeft
	}
	if c.JoinSuffixRight != "" {
		right = c.JoinSuffixRight
	}
	return left, right
}

type unsupportedCodecError struct{ name string }

func (e unsupportedCodecError) Error() string { return "unsupported scratch codec: " + e.name }
