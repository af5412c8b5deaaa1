// Package stdops is the catalogue of reusable Mappers, Reducers, and
// Joiners the spec's "standard operator library" component names: filter,
// project, split, top-N, term-frequency, and the four join strategies.
// Domain-specific leaf operators (tokenization details, geodistance, date
// parsing) stay out of scope; everything here is generic across row
// shapes.
package stdops

import (
	"strings"
	"unicode"

	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

// Dummy yields exactly the row it's given, unchanged. Useful as a no-op
// leg of a graph and in identity-law tests.
func Dummy() ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) { return []row.Row{r}, nil })
}

// Filter drops rows for which cond returns false.
func Filter(cond func(row.Row) bool) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		if cond(r) {
			return []row.Row{r}, nil
		}
		return nil, nil
	})
}

// Project keeps only the named columns, in the order given. It fails with
// MissingColumn if any requested column is absent.
func Project(columns []string) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		out, err := r.Project("Project", columns)
		if err != nil {
			return nil, err
		}
		return []row.Row{out}, nil
	})
}

// Split breaks column on sep (strings.Fields semantics when sep == "",
// matching the original's str.split(None) "split on any run of
// whitespace") into one output row per field, each row a copy of the
// input with column replaced by that field.
func Split(column, sep string) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		v, err := r.MustGet("Split", column)
		if err != nil {
			return nil, err
		}
		s, ok := v.AsStr()
		if !ok {
			return nil, row.TypeMismatchErr("Split", column, errNotAString(v))
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(s)
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]row.Row, len(parts))
		for i, p := range parts {
			out[i] = r.Copy().With(column, row.Str(p))
		}
		return out, nil
	})
}

// LowerCase replaces column's string value with its lowercased form.
func LowerCase(column string) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		v, err := r.MustGet("LowerCase", column)
		if err != nil {
			return nil, err
		}
		s, ok := v.AsStr()
		if !ok {
			return nil, row.TypeMismatchErr("LowerCase", column, errNotAString(v))
		}
		return []row.Row{r.With(column, row.Str(strings.ToLower(s)))}, nil
	})
}

// FilterPunctuation removes Unicode punctuation runes from column's string
// value.
func FilterPunctuation(column string) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		v, err := r.MustGet("FilterPunctuation", column)
		if err != nil {
			return nil, err
		}
		s, ok := v.AsStr()
		if !ok {
			return nil, row.TypeMismatchErr("FilterPunctuation", column, errNotAString(v))
		}
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, s)
		return []row.Row{r.With(column, row.Str(cleaned))}, nil
	})
}

// Product multiplies the numeric values of columns together and writes the
// result (as a Float) to result.
func Product(columns []string, result string) ops.Mapper {
	return ops.MapperFunc(func(r row.Row) ([]row.Row, error) {
		acc := 1.0
		for _, c := range columns {
			v, err := r.MustGet("Product", c)
			if err != nil {
				return nil, err
			}
			f, ok := v.AsFloat()
			if !ok {
				return nil, row.TypeMismatchErr("Product", c, errNotNumeric(v))
			}
			acc *= f
		}
		return []row.Row{r.With(result, row.Float(acc))}, nil
	})
}

type notAStringError struct{ kind row.Kind }

func (e *notAStringError) Error() string { return "value of kind " + e.kind.String() + " is not a string" }

func errNotAString(v row.Value) error { return &notAStringError{kind: v.Kind()} }

type notNumericError struct{ kind row.Kind }

func (e *notNumericError) Error() string { return "value of kind " + e.kind.String() + " is not numeric" }

func errNotNumeric(v row.Value) error { return &notNumericError{kind: v.Kind()} }
