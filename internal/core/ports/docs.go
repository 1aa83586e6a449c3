// Package ports defines the contracts between the order workflow and the
// outside world: the order store (a database or a remote REST backend), the
// token refresher of the auth service, the status-change publisher and the
// board that keeps a converged view of open orders.
//
// Adapters under internal/adapters implement these interfaces; use cases
// depend only on them.
package ports
