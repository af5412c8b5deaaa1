package stdops_test

import (
	"testing"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
	"github.com/kestreldata/rowgraph/stdops"
)

func drain(t *testing.T, s ops.Stream) []row.Row {
	t.Helper()
	out, err := ops.Drain(s)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFilterKeepsOnlyMatching(t *testing.T) {
	in := []row.Row{
		row.New().With("n", row.Int(1)),
		row.New().With("n", row.Int(2)),
		row.New().With("n", row.Int(3)),
	}
	even := stdops.Filter(func(r row.Row) bool {
		v, _ := r.Get("n")
		n, _ := v.AsInt()
		return n%2 == 0
	})
	out := drain(t, ops.MapOp{Mapper: even}.Apply(ops.FromSlice(in)))
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
}

func TestProjectThenProjectAgainIsIdempotent(t *testing.T) {
	in := []row.Row{row.New().With("a", row.Int(1)).With("b", row.Int(2)).With("c", row.Int(3))}
	once := drain(t, ops.MapOp{Mapper: stdops.Project([]string{"a", "c"})}.Apply(ops.FromSlice(in)))
	twice := drain(t, ops.MapOp{Mapper: stdops.Project([]string{"a", "c"})}.Apply(ops.FromSlice(once)))
	if len(once[0].Columns()) != len(twice[0].Columns()) {
		t.Fatalf("projecting twice changed shape: %v vs %v", once[0].Columns(), twice[0].Columns())
	}
}

func TestSplitForksRowsIndependently(t *testing.T) {
	in := []row.Row{row.New().With("text", row.Str("a b c")).With("keep", row.Int(9))}
	out := drain(t, ops.MapOp{Mapper: stdops.Split("text", "")}.Apply(ops.FromSlice(in)))
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	for i, want := range []string{"a", "b", "c"} {
		v, _ := out[i].Get("text")
		if s, _ := v.AsStr(); s != want {
			t.Fatalf("out[%d].text = %q, want %q", i, s, want)
		}
		kv, _ := out[i].Get("keep")
		if n, _ := kv.AsInt(); n != 9 {
			t.Fatalf("out[%d].keep = %d, want 9", i, n)
		}
	}
}

func TestTopNDescendingWithTieBreak(t *testing.T) {
	group := []row.Row{
		row.New().With("rank", row.Int(42)),
		row.New().With("rank", row.Int(7)),
		row.New().With("rank", row.Int(0)),
		row.New().With("rank", row.Int(39)),
	}
	key := row.Key{row.Int(1)}
	out, err := stdops.TopN("rank", 3).Reduce(key, ops.FromSlice(group))
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{42, 39, 7}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i, w := range want {
		v, _ := out[i].Get("rank")
		if n, _ := v.AsInt(); n != w {
			t.Fatalf("out[%d].rank = %d, want %d", i, n, w)
		}
	}
}

func TestTermFrequency(t *testing.T) {
	group := []row.Row{
		row.New().With("doc_id", row.Int(4)).With("word", row.Str("little")),
		row.New().With("doc_id", row.Int(4)).With("word", row.Str("hello")),
		row.New().With("doc_id", row.Int(4)).With("word", row.Str("little")),
		row.New().With("doc_id", row.Int(4)).With("word", row.Str("world")),
	}
	key := row.Key{row.Int(4)}
	out, err := stdops.TermFrequency([]string{"doc_id"}, "word", "tf").Reduce(key, ops.FromSlice(group))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"little": 0.5, "hello": 0.25, "world": 0.25}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for _, r := range out {
		wv, _ := r.Get("word")
		w, _ := wv.AsStr()
		tfv, _ := r.Get("tf")
		tf, _ := tfv.AsFloat()
		if tf != want[w] {
			t.Fatalf("tf[%q] = %v, want %v", w, tf, want[w])
		}
		did, _ := r.Get("doc_id")
		if n, _ := did.AsInt(); n != 4 {
			t.Fatalf("doc_id = %d, want 4", n)
		}
	}
}

func TestJoinerStrategiesMatchSpecTable(t *testing.T) {
	left := []row.Row{row.New().With("k", row.Int(1)).With("u", row.Str("x"))}
	right := []row.Row{}

	if out, _ := stdops.NewInnerJoiner().Join([]string{"k"}, left, right); len(out) != 0 {
		t.Fatalf("Inner with empty right = %v, want none", out)
	}
	if out, _ := stdops.NewOuterJoiner().Join([]string{"k"}, left, right); len(out) != 1 {
		t.Fatalf("Outer with empty right = %v, want left unmodified", out)
	}
	if out, _ := stdops.NewLeftJoiner().Join([]string{"k"}, left, right); len(out) != 1 {
		t.Fatalf("Left with empty right = %v, want left unmodified", out)
	}
	if out, _ := stdops.NewRightJoiner().Join([]string{"k"}, left, right); len(out) != 0 {
		t.Fatalf("Right with empty right = %v, want none", out)
	}
}

func TestWithConfigDefaultsAppliesOnlyWhenSuffixesNotExplicit(t *testing.T) {
	left := []row.Row{row.New().With("k", row.Int(1)).With("v", row.Int(1))}
	right := []row.Row{row.New().With("k", row.Int(1)).With("v", row.Int(2))}

	deflt := stdops.NewInnerJoiner().WithConfigDefaults("_left", "_right")
	out, err := deflt.Join([]string{"k"}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || !out[0].Has("v_left") || !out[0].Has("v_right") {
		t.Fatalf("out = %+v, want v_left/v_right suffixes applied", out)
	}

	explicit := stdops.NewInnerJoiner().WithSuffixes("_a", "_b").WithConfigDefaults("_left", "_right")
	out, err = explicit.Join([]string{"k"}, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || !out[0].Has("v_a") || !out[0].Has("v_b") {
		t.Fatalf("out = %+v, want explicit _a/_b suffixes preserved", out)
	}
}
