package graph

import "log"

// Option configures optional diagnostics for a single Run call, the same
// functional-option shape as the teacher's tenant.Option/WithLogger pair.
type Option func(rt *runCtx)

// WithLogger has Run log a trace of node execution, and any Sort node's
// spill and merge activity, to l. If Run is never given a WithLogger
// option, it logs nothing — the same "nil logger means no output"
// contract the teacher's Manager.errorf uses internally.
func WithLogger(l *log.Logger) Option {
	return func(rt *runCtx) {
		rt.logger = l
	}
}
