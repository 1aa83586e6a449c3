// Package services provides domain services that span more than one order
// value. It implements the rules that keep several views of the same order
// converging without going backwards.
//
// The package includes:
//   - StatusReconciler: decides whether an observed status may replace a held one
//
// Domain services hold no state and perform no I/O.
package services
