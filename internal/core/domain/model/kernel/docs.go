// Package kernel provides the identifier value objects shared by the order
// workflow:
//   - OrderID: the positive identifier the order store assigns on creation;
//     its zero value means "not persisted yet"
//   - UUID: random identifiers for status-change events and requests
//
// Both are immutable values and safe for concurrent use.
package kernel
