package stdops

import (
	"golang.org/x/exp/slices"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

func keyRow(groupKeys []string, key row.Key) row.Row {
	out := row.New()
	for i, c := range groupKeys {
		if i < len(key) {
			out = out.With(c, key[i])
		}
	}
	return out
}

// First yields only the first row of each group.
func First() ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		r, err := group.Next()
		if err != nil {
			return nil, err
		}
		_, _ = ops.Drain(group)
		return []row.Row{r}, nil
	})
}

// Count replaces each group with a single row carrying the group-key
// columns plus column set to the number of rows in the group. groupKeys
// must be the same key list the enclosing ReduceOp groups by, so the
// output row can carry them by name instead of just position.
func Count(groupKeys []string, column string) ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		out := keyRow(groupKeys, key).With(column, row.Int(int64(len(rows))))
		return []row.Row{out}, nil
	})
}

// Sum replaces each group with a single row carrying the group-key columns
// plus the sum of column across the group.
func Sum(groupKeys []string, column string) ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		var sum float64
		for _, r := range rows {
			v, err := r.MustGet("Sum", column)
			if err != nil {
				return nil, err
			}
			f, ok := v.AsFloat()
			if !ok {
				return nil, row.TypeMismatchErr("Sum", column, errNotNumeric(v))
			}
			sum += f
		}
		out := keyRow(groupKeys, key).With(column, row.Float(sum))
		return []row.Row{out}, nil
	})
}

// Mean replaces each group with a single row carrying the group-key
// columns plus the arithmetic mean of column across the group.
func Mean(groupKeys []string, column string) ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		var sum float64
		for _, r := range rows {
			v, err := r.MustGet("Mean", column)
			if err != nil {
				return nil, err
			}
			f, ok := v.AsFloat()
			if !ok {
				return nil, row.TypeMismatchErr("Mean", column, errNotNumeric(v))
			}
			sum += f
		}
		out := keyRow(groupKeys, key).With(column, row.Float(sum/float64(len(rows))))
		return []row.Row{out}, nil
	})
}

// TopN keeps the n rows of each group with the largest values in column,
// in descending order. Ties on column break on original arrival order
// (the implementation-defined choice the spec leaves open, picked because
// it's what a stable sort gives for free).
func TopN(column string, n int) ops.Reducer {
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		ranked := make([]row.Row, len(rows))
		copy(ranked, rows)
		var sortErr error
		slices.SortStableFunc(ranked, func(a, b row.Row) bool {
			av, aok := a.Get(column)
			bv, bok := b.Get(column)
			if !aok || !bok {
				if sortErr == nil {
					missing := column
					sortErr = row.MissingColumnErr("TopN", missing)
				}
				return false
			}
			c, err := av.Compare(bv)
			if err != nil {
				if sortErr == nil {
					sortErr = row.NotComparableErr("TopN", err)
				}
				return false
			}
			return c > 0
		})
		if sortErr != nil {
			return nil, sortErr
		}
		if n < len(ranked) {
			ranked = ranked[:n]
		}
		return ranked, nil
	})
}

// TermFrequency computes, for each distinct value of wordsColumn within a
// group, that value's share of the group's total row count, writing the
// group-key columns, wordsColumn, and result ("tf" when result is empty)
// per distinct value.
func TermFrequency(groupKeys []string, wordsColumn, result string) ops.Reducer {
	if result == "" {
		result = "tf"
	}
	return ops.ReducerFunc(func(key row.Key, group ops.Stream) ([]row.Row, error) {
		rows, err := ops.Drain(group)
		if err != nil {
			return nil, err
		}
		counts := map[string]int{}
		var order []string
		for _, r := range rows {
			v, err := r.MustGet("TermFrequency", wordsColumn)
			if err != nil {
				return nil, err
			}
			w, ok := v.AsStr()
			if !ok {
				return nil, row.TypeMismatchErr("TermFrequency", wordsColumn, errNotAString(v))
			}
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
		}
		total := float64(len(rows))
		out := make([]row.Row, 0, len(order))
		for _, w := range order {
			r := keyRow(groupKeys, key).
				With(wordsColumn, row.Str(w)).
				With(result, row.Float(float64(counts[w])/total))
			out = append(out, r)
		}
		return out, nil
	})
}
