// Package errs provides the typed validation and lookup errors shared by the
// order workflow packages.
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with the offending parameter and an optional cause
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify errors with errors.Is against the sentinels and read the
// details with errors.As.
package errs
