// Package commands contains business operations that change order state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: a guarded constructor validates
// input, the handler talks to ports only.
package commands

import "time"

// Clock returns the current time. Production code passes time.Now.
type Clock func() time.Time
