package ops_test

import (
	"testing"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

func countReducer(column string) ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		out := row.New()
		if len(key) > 0 {
			out = out.With("g", key[0])
		}
		out = out.With(column, row.Int(int64(len(rows))))
		return []row.Row{out}, nil
	})
}

func TestReducePartitioning(t *testing.T) {
	// Running Reduce on the sorted whole must equal concatenating Reducer
	// outputs over any partition of the input into key-homogeneous groups.
	whole := []row.Row{
		row.New().With("g", row.Str("a")).With("v", row.Int(1)),
		row.New().With("g", row.Str("a")).With("v", row.Int(2)),
		row.New().With("g", row.Str("b")).With("v", row.Int(3)),
	}
	op := ops.ReduceOp{Reducer: countReducer("n"), Keys: []string{"g"}}

	whole1 := drain(t, op.Apply(ops.FromSlice(whole)))

	// partitioned: feed group "a" then group "b" as two separate
	// Reduce invocations and concatenate.
	partA := drain(t, op.Apply(ops.FromSlice(whole[:2])))
	partB := drain(t, op.Apply(ops.FromSlice(whole[2:])))
	partitioned := append(partA, partB...)

	if len(whole1) != len(partitioned) {
		t.Fatalf("len(whole)=%d len(partitioned)=%d", len(whole1), len(partitioned))
	}
	for i := range whole1 {
		av, _ := whole1[i].Get("n")
		bv, _ := partitioned[i].Get("n")
		if !av.Equal(bv) {
			t.Fatalf("row %d: %v != %v", i, av, bv)
		}
	}
}

func drain(t *testing.T, s ops.Stream) []row.Row {
	t.Helper()
	out, err := ops.Drain(s)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestReducePreservesGroupOrder(t *testing.T) {
	first := ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		r, err := group.Next()
		if err != nil {
			return nil, err
		}
		_, _ = ops.Drain(group)
		return []row.Row{r}, nil
	})
	in := []row.Row{
		row.New().With("g", row.Int(1)).With("v", row.Str("first")),
		row.New().With("g", row.Int(1)).With("v", row.Str("second")),
		row.New().With("g", row.Int(2)).With("v", row.Str("third")),
	}
	out := drain(t, ops.ReduceOp{Reducer: first, Keys: []string{"g"}}.Apply(ops.FromSlice(in)))
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	v0, _ := out[0].Get("v")
	if s, _ := v0.AsStr(); s != "first" {
		t.Fatalf("out[0].v = %q, want %q", s, "first")
	}
}
