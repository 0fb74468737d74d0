// Package probe implements database readiness checks.
//
// The startup sequencer only needs a yes/no answer, so a Prober is the
// narrowest possible interface: one check, one error.
package probe

import "context"

// Prober reports whether the database can accept connections.
// A nil return means ready; any error means "not yet".
type Prober interface {
	Check(ctx context.Context) error
}

// Func adapts a plain function to the Prober interface
type Func func(ctx context.Context) error

func (f Func) Check(ctx context.Context) error {
	return f(ctx)
}
