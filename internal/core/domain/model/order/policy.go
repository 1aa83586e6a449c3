package order

import "slices"

// transitions is the one authoritative role x status table. Cells that are
// absent allow nothing; terminal statuses have no rows.
var transitions = map[Role]map[Status][]Status{
	Admin: {
		Pending:         {Accepted, Ready, OnTheWay, DeliveredUnpaid, DeliveredPaid, Cancelled},
		Accepted:        {Ready, OnTheWay, DeliveredUnpaid, DeliveredPaid, Cancelled},
		Ready:           {OnTheWay, DeliveredUnpaid, DeliveredPaid, Cancelled},
		OnTheWay:        {DeliveredUnpaid, DeliveredPaid, Cancelled},
		DeliveredUnpaid: {DeliveredPaid, Cancelled},
	},
	Kitchen: {
		Pending:  {Accepted},
		Accepted: {Ready, Cancelled},
	},
	Delivery: {
		Ready:    {OnTheWay},
		OnTheWay: {DeliveredPaid, Cancelled},
	},
	Waiter: {
		Pending:         {Cancelled},
		Ready:           {DeliveredUnpaid},
		DeliveredUnpaid: {DeliveredPaid, Cancelled},
	},
}

// AllowedTransitions returns the statuses role may move an order to from
// current, in lifecycle order.
//
// The function is total: unknown roles, unknown statuses, terminal statuses
// and absent cells all yield an empty slice. The result is a fresh copy the
// caller may modify.
func AllowedTransitions(role Role, current Status) []Status {
	return slices.Clone(transitions[role][current])
}

// CanTransition reports whether target is in AllowedTransitions(role, current).
func CanTransition(role Role, current, target Status) bool {
	return slices.Contains(transitions[role][current], target)
}

// Reachable reports whether to can be reached from from through one or more
// transitions granted to any role. A status is not reachable from itself.
//
// Used to decide whether an observed status is ahead of a held one.
func Reachable(from, to Status) bool {
	seen := map[Status]bool{}
	queue := []Status{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range successors(current) {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// QueueStatuses lists, in lifecycle order, the statuses from which role has
// at least one transition. These are the orders a role's dashboard works on.
func QueueStatuses(role Role) []Status {
	var out []Status
	for _, s := range lifecycle {
		if len(transitions[role][s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func successors(s Status) []Status {
	var out []Status
	for _, role := range Roles() {
		for _, next := range transitions[role][s] {
			if !slices.Contains(out, next) {
				out = append(out, next)
			}
		}
	}
	return out
}
