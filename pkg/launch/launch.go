// Package launch hands the container over to the application process.
package launch

import "context"

// Launcher starts the application entry point.
//
// ExecLauncher replaces the current process and never returns on
// success. SupervisedLauncher spawns a child, forwards signals, and
// returns once the child exits.
type Launcher interface {
	Launch(ctx context.Context) error
}
