// Package queries contains read operations for dashboards.
// Implements the Query side of CQRS: queries never change order state.
// Each query has a guarded constructor and a handler; handlers that reach
// a credential-checking store refresh the session once, like commands do.
package queries

import "orderflow/internal/core/domain/model/order"

// StatusView is a catalog entry as dashboards render it.
type StatusView struct {
	Status   order.Status
	Label    string
	Terminal bool
}

func newStatusView(s order.Status) (StatusView, error) {
	label, err := s.Label()
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{Status: s, Label: label, Terminal: s.IsTerminal()}, nil
}

func statusViews(statuses []order.Status) ([]StatusView, error) {
	views := make([]StatusView, 0, len(statuses))
	for _, s := range statuses {
		v, err := newStatusView(s)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
