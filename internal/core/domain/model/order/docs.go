// Package order holds the order-status workflow of the pizza store: the
// status catalog, the staff and client roles, the single transition policy
// every dashboard consults, and the Order aggregate that exposes the only
// legal way to move an order forward.
//
// The package includes:
//   - Status: the closed set of lifecycle codes (PE, AP, RE, OW, DN, DY, CA)
//     with their display labels and terminal flag
//   - Role: the closed set of acting roles (Admin, Kitchen, Delivery, Waiter, Client)
//   - AllowedTransitions / CanTransition: the role x status transition table
//   - Order: an immutable value; RequestTransition returns a new value
//
// Key business rules:
//   - Orders are created Pending and only move along the transition table
//   - Delivered - Paid (DY) and Cancelled (CA) are terminal for every role
//   - An order without a store-assigned id cannot change status
//
// Everything here is pure: no I/O, no clocks (callers pass "now"), safe for
// concurrent use.
package order
