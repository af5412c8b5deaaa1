package stdops

import (
	"github.com/kestreldata/rowgraph/ops"
	"github.com/kestreldata/rowgraph/row"
)

// DefaultSuffixLeft and DefaultSuffixRight are the column-collision
// suffixes every join strategy uses unless constructed with WithSuffixes.
const (
	DefaultSuffixLeft  = "_1"
	DefaultSuffixRight = "_2"
)

type joinerBase struct {
	suffixLeft, suffixRight string
	// explicit is set once WithSuffixes has been called, so a Graph.Run
	// with a *rowgraphcfg.Config in play knows not to override a suffix
	// pair the caller picked on purpose.
	explicit bool
}

func (j joinerBase) cross(keys []string, left, right []row.Row) []row.Row {
	return ops.CrossProduct(keys, left, right, j.suffixLeft, j.suffixRight)
}

// SuffixConfigurable is implemented by every joiner this package
// constructs. Graph.Run's join node uses it to apply a
// *rowgraphcfg.Config's default suffixes to a joiner still on its
// NewXJoiner defaults, without disturbing one built with WithSuffixes.
type SuffixConfigurable interface {
	WithConfigDefaults(left, right string) ops.Joiner
}

// InnerJoiner emits the cross product when both sides of a key have rows,
// and nothing when either side is empty.
type InnerJoiner struct{ joinerBase }

func NewInnerJoiner() *InnerJoiner { return &InnerJoiner{joinerBase{suffixLeft: DefaultSuffixLeft, suffixRight: DefaultSuffixRight}} }

func (j *InnerJoiner) WithSuffixes(left, right string) *InnerJoiner {
	return &InnerJoiner{joinerBase{suffixLeft: left, suffixRight: right, explicit: true}}
}

// WithConfigDefaults returns j unchanged if WithSuffixes already set its
// suffixes explicitly, otherwise a copy using left/right.
func (j *InnerJoiner) WithConfigDefaults(left, right string) ops.Joiner {
	if j.explicit {
		return j
	}
	return &InnerJoiner{joinerBase{suffixLeft: left, suffixRight: right}}
}

func (j *InnerJoiner) Join(keys []string, left, right []row.Row) ([]row.Row, error) {
	if len(left) == 0 || len(right) == 0 {
		return nil, nil
	}
	return j.cross(keys, left, right), nil
}

// OuterJoiner emits the unmodified side whenever the other is empty, and
// the cross product when both have rows.
type OuterJoiner struct{ joinerBase }

func NewOuterJoiner() *OuterJoiner { return &OuterJoiner{joinerBase{suffixLeft: DefaultSuffixLeft, suffixRight: DefaultSuffixRight}} }

func (j *OuterJoiner) WithSuffixes(left, right string) *OuterJoiner {
	return &OuterJoiner{joinerBase{suffixLeft: left, suffixRight: right, explicit: true}}
}

// WithConfigDefaults returns j unchanged if WithSuffixes already set its
// suffixes explicitly, otherwise a copy using left/right.
func (j *OuterJoiner) WithConfigDefaults(left, right string) ops.Joiner {
	if j.explicit {
		return j
	}
	return &OuterJoiner{joinerBase{suffixLeft: left, suffixRight: right}}
}

func (j *OuterJoiner) Join(keys []string, left, right []row.Row) ([]row.Row, error) {
	return j.cross(keys, left, right), nil
}

// LeftJoiner emits the left side unmodified when the right side is empty,
// the cross product when both have rows, and nothing when the left side is
// empty.
type LeftJoiner struct{ joinerBase }

func NewLeftJoiner() *LeftJoiner { return &LeftJoiner{joinerBase{suffixLeft: DefaultSuffixLeft, suffixRight: DefaultSuffixRight}} }

func (j *LeftJoiner) WithSuffixes(left, right string) *LeftJoiner {
	return &LeftJoiner{joinerBase{suffixLeft: left, suffixRight: right, explicit: true}}
}

// WithConfigDefaults returns j unchanged if WithSuffixes already set its
// suffixes explicitly, otherwise a copy using left/right.
func (j *LeftJoiner) WithConfigDefaults(left, right string) ops.Joiner {
	if j.explicit {
		return j
	}
	return &LeftJoiner{joinerBase{suffixLeft: left, suffixRight: right}}
}

func (j *LeftJoiner) Join(keys []string, left, right []row.Row) ([]row.Row, error) {
	if len(left) == 0 {
		return nil, nil
	}
	return j.cross(keys, left, right), nil
}

// RightJoiner emits the right side unmodified when the left side is empty,
// the cross product when both have rows, and nothing when the right side
// is empty.
type RightJoiner struct{ joinerBase }

func NewRightJoiner() *RightJoiner { return &RightJoiner{joinerBase{suffixLeft: DefaultSuffixLeft, suffixRight: DefaultSuffixRight}} }

func (j *RightJoiner) WithSuffixes(left, right string) *RightJoiner {
	return &RightJoiner{joinerBase{suffixLeft: left, suffixRight: right, explicit: true}}
}

// WithConfigDefaults returns j unchanged if WithSuffixes already set its
// suffixes explicitly, otherwise a copy using left/right.
func (j *RightJoiner) WithConfigDefaults(left, right string) ops.Joiner {
	if j.explicit {
		return j
	}
	return &RightJoiner{joinerBase{suffixLeft: left, suffixRight: right}}
}

func (j *RightJoiner) Join(keys []string, left, right []row.Row) ([]row.Row, error) {
	if len(right) == 0 {
		return nil, nil
	}
	return j.cross(keys, left, right), nil
}
