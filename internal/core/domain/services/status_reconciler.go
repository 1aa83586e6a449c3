package services

import (
	"orderflow/internal/core/domain/model/order"
)

// StatusReconciler decides whether a status observed elsewhere (a push
// notification, a fresh read from the store) may replace the status held by
// a view of the order.
//
// Push notifications arrive in no particular order across dashboards. Since
// orders only move forward, an observed status that is not reachable from the
// held one is stale and must be dropped, otherwise a late "RE" could overwrite
// an "OW" already on screen.
//
// Example usage:
//
//	reconciler := services.NewStatusReconciler()
//	if !reconciler.Accept(held.CurrentStatus(), event.Status) {
//	    return // stale
//	}
type StatusReconciler struct{}

// NewStatusReconciler creates a new StatusReconciler instance.
func NewStatusReconciler() StatusReconciler {
	return StatusReconciler{}
}

// Accept reports whether incoming may replace local.
//
// Rules:
//   - nothing held yet (local is Unknown): accept any valid status
//   - same status: accept (the record may carry newer timestamps)
//   - incoming reachable from local through the transition graph: accept
//   - anything else, including invalid incoming statuses: reject
func (StatusReconciler) Accept(local, incoming order.Status) bool {
	if incoming.Validate() != nil {
		return false
	}
	if local == order.Unknown || local == incoming {
		return true
	}
	return order.Reachable(local, incoming)
}

// Merge returns the order to hold after observing incoming while holding
// held, and whether incoming was taken. A zero held value means nothing is
// held yet.
func (r StatusReconciler) Merge(held, incoming order.Order) (order.Order, bool) {
	if !r.Accept(held.CurrentStatus(), incoming.CurrentStatus()) {
		return held, false
	}
	return incoming, true
}
