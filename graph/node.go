// Package graph implements the immutable computation-graph builder and its
// single-threaded, pull-based execution engine: Source, Map, Reduce, Sort,
// and Join nodes composed into a DAG with one terminal output, bound to
// concrete row sources only at Run time.
package graph

import (
	"log"

	"github.com/kestreldata/rowgraph/extsort"
	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
	"github.com/kestreldata/rowgraph/rowgraphcfg"
	"github.com/kestreldata/rowgraph/stdops"
)

// node is the internal graph vertex contract. Every node is immutable once
// constructed: a builder call never mutates an existing node, it wraps one
// in a new node and returns a new Graph holding it. This is "option (a)"
// from the design notes — nodes share structure across branches, and the
// only per-run mutable state lives in runCtx's binding table.
type node interface {
	open(rt *runCtx) (ops.Stream, error)
}

// runCtx is the per-Run state: which Factory each source node is bound to,
// the engine-wide defaults a Sort node reads its chunk size and scratch
// directory from, and an optional diagnostics logger. It is built fresh
// inside Run and never escapes it, so two concurrent Run calls on the same
// Graph never interfere.
type runCtx struct {
	bound  map[*sourceNode]ops.Factory
	cfg    *rowgraphcfg.Config
	logger *log.Logger
}

// logf writes a diagnostic trace of node execution if rt was built with a
// logger via WithLogger; otherwise it is a no-op, the same contract the
// teacher's tenant.Manager uses for its own errorf.
func (rt *runCtx) logf(format string, args ...interface{}) {
	if rt.logger != nil {
		rt.logger.Printf(format, args...)
	}
}

// sourceNode is a named, unbound placeholder. Its identity (pointer) is
// what the per-run binding table keys on, not its name — two sourceNodes
// can carry the same name, since Join's rename-on-collision rule renames
// only the incoming one's key in the graph's source table, not its name
// field.
type sourceNode struct {
	name string
}

func (s *sourceNode) open(rt *runCtx) (ops.Stream, error) {
	f, ok := rt.bound[s]
	if !ok {
		rt.logf("graph: source %q has no bound factory", s.name)
		return nil, row.UnboundSourceErr(s.name)
	}
	rt.logf("graph: opening source %q", s.name)
	return f()
}

type mapNode struct {
	in     node
	mapper ops.Mapper
}

func (n *mapNode) open(rt *runCtx) (ops.Stream, error) {
	in, err := n.in.open(rt)
	if err != nil {
		return nil, err
	}
	rt.logf("graph: opening map node")
	return ops.MapOp{Mapper: n.mapper}.Apply(in), nil
}

type reduceNode struct {
	in      node
	reducer ops.Reducer
	keys    []string
}

func (n *reduceNode) open(rt *runCtx) (ops.Stream, error) {
	in, err := n.in.open(rt)
	if err != nil {
		return nil, err
	}
	rt.logf("graph: opening reduce node, keys=%v", n.keys)
	return ops.ReduceOp{Reducer: n.reducer, Keys: n.keys}.Apply(in), nil
}

type sortNode struct {
	in   node
	keys []string
}

func (n *sortNode) open(rt *runCtx) (ops.Stream, error) {
	in, err := n.in.open(rt)
	if err != nil {
		return nil, err
	}
	rt.logf("graph: opening sort node, keys=%v", n.keys)
	s := extsort.Sorter{
		Keys:       n.keys,
		ChunkSize:  rt.cfg.ChunkSizeOrDefault(),
		ScratchDir: rt.cfg.ScratchDirOrDefault(),
		Logger:     rt.logger,
	}
	return s.Sort(in)
}

type joinNode struct {
	left, right node
	joiner      ops.Joiner
	keys        []string
}

func (n *joinNode) open(rt *runCtx) (ops.Stream, error) {
	left, err := n.left.open(rt)
	if err != nil {
		return nil, err
	}
	right, err := n.right.open(rt)
	if err != nil {
		left.Close()
		return nil, err
	}
	rt.logf("graph: opening join node, keys=%v", n.keys)
	joiner := n.joiner
	if sc, ok := joiner.(stdops.SuffixConfigurable); ok {
		suffixLeft, suffixRight := rt.cfg.JoinSuffixesOrDefault()
		joiner = sc.WithConfigDefaults(suffixLeft, suffixRight)
	}
	return ops.JoinOp{Joiner: joiner, Keys: n.keys}.Apply(left, right), nil
}
