package graph

import (
	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
	"github.com/kestreldata/rowgraph/rowgraphcfg"
)

// Graph is an immutable composition of nodes with a single terminal output
// and a table of named, possibly still-unbound sources. Every builder
// method returns a new Graph; the receiver is never modified, so branching
// a graph at any point and extending the branches independently is always
// safe — they share upstream node values but never upstream mutable
// state.
type Graph struct {
	terminal node
	sources  map[string]*sourceNode
	order    []string
}

// FromSource starts a new graph whose terminal is a single unbound source
// registered under name.
func FromSource(name string) Graph {
	s := &sourceNode{name: name}
	return Graph{
		terminal: s,
		sources:  map[string]*sourceNode{name: s},
		order:    []string{name},
	}
}

// Map returns a new graph whose terminal streams g's terminal through
// mapper.
func (g Graph) Map(mapper ops.Mapper) Graph {
	return g.withTerminal(&mapNode{in: g.terminal, mapper: mapper})
}

// Reduce returns a new graph whose terminal streams g's terminal, grouped
// by keys, through reducer. g's terminal must already be sorted ascending
// on keys; the engine does not verify this.
func (g Graph) Reduce(reducer ops.Reducer, keys []string) Graph {
	return g.withTerminal(&reduceNode{in: g.terminal, reducer: reducer, keys: keys})
}

// Sort returns a new graph whose terminal is g's terminal externally
// sorted ascending on keys.
func (g Graph) Sort(keys []string) Graph {
	return g.withTerminal(&sortNode{in: g.terminal, keys: keys})
}

// Join returns a new graph whose terminal sort-merge-joins g's terminal
// (left) with other's terminal (right) on keys using joiner. Both
// terminals must already be sorted ascending on keys. other's source
// table is merged into the result's: any name already present in g's
// table is renamed by appending "_" until unique, so every original
// source — from either side — remains independently bindable by some
// name.
func (g Graph) Join(joiner ops.Joiner, other Graph, keys []string) Graph {
	merged := make(map[string]*sourceNode, len(g.sources)+len(other.sources))
	order := make([]string, 0, len(g.order)+len(other.order))
	for _, name := range g.order {
		merged[name] = g.sources[name]
		order = append(order, name)
	}
	for _, name := range other.order {
		unique := name
		for {
			if _, taken := merged[unique]; !taken {
				break
			}
			unique += "_"
		}
		merged[unique] = other.sources[name]
		order = append(order, unique)
	}
	return Graph{
		terminal: &joinNode{left: g.terminal, right: other.terminal, joiner: joiner, keys: keys},
		sources:  merged,
		order:    order,
	}
}

func (g Graph) withTerminal(n node) Graph {
	return Graph{terminal: n, sources: g.sources, order: g.order}
}

// SourceNames returns the graph's bindable source names in registration
// order (post rename-on-collision), useful for a caller that wants to
// discover what Run expects without having tracked every Join by hand.
func (g Graph) SourceNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Run binds bindings' factories to the graph's sources by name, executes
// the graph single-threaded and pull-based from its terminal, and returns
// every row it yields. A name in bindings that doesn't match any source in
// the graph is silently ignored, matching the original library's
// permissive keyword-binding contract. cfg may be nil, in which case the
// engine's built-in defaults (extsort.DefaultChunkSize, os.TempDir(),
// stdops.DefaultSuffixLeft/Right) apply. opts may include WithLogger to
// have Run trace node execution and Sort spill/merge activity; with no
// options, Run logs nothing.
//
// Running the same Graph again repeats the whole process with fresh
// factory invocations and a fresh binding table; nodes hold no state
// across Run calls.
func (g Graph) Run(bindings map[string]ops.Factory, cfg *rowgraphcfg.Config, opts ...Option) ([]row.Row, error) {
	rt := &runCtx{bound: make(map[*sourceNode]ops.Factory, len(bindings)), cfg: cfg}
	for _, opt := range opts {
		opt(rt)
	}
	for name, f := range bindings {
		s, ok := g.sources[name]
		if !ok {
			rt.logf("graph: ignoring binding for unknown source %q", name)
			continue
		}
		rt.bound[s] = f
	}
	rt.logf("graph: run starting with %d source(s) bound", len(rt.bound))
	stream, err := g.terminal.open(rt)
	if err != nil {
		rt.logf("graph: run failed to open: %v", err)
		return nil, err
	}
	rows, err := ops.Drain(stream)
	if err != nil {
		rt.logf("graph: run failed during drain: %v", err)
		return nil, err
	}
	rt.logf("graph: run finished, %d row(s)", len(rows))
	return rows, nil
}
