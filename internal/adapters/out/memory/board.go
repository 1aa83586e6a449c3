// Package memory holds the in-memory dashboard board.
package memory

import (
	"sort"
	"sync"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
)

// Board is a ports.OrderBoard kept in process memory. Every Put goes through
// the status reconciler, so a held order never moves backwards.
type Board struct {
	mu         sync.RWMutex
	byID       map[int64]order.Order
	reconciler services.StatusReconciler
}

func NewBoard() *Board {
	return &Board{
		byID:       make(map[int64]order.Order),
		reconciler: services.NewStatusReconciler(),
	}
}

func (b *Board) Get(id kernel.OrderID) (order.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.byID[id.Int64()]
	return o, ok
}

// Put merges o into the board and reports whether it was taken.
// Orders without an id are ignored.
func (b *Board) Put(o order.Order) bool {
	if !o.IsPersisted() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	merged, taken := b.reconciler.Merge(b.byID[o.ID().Int64()], o)
	if taken {
		b.byID[o.ID().Int64()] = merged
	}
	return taken
}

func (b *Board) Snapshot() []order.Order {
	b.mu.RLock()
	out := make([]order.Order, 0, len(b.byID))
	for _, o := range b.byID {
		out = append(out, o)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID().Int64() < out[j].ID().Int64() })
	return out
}

func (b *Board) IDs() []kernel.OrderID {
	snapshot := b.Snapshot()
	ids := make([]kernel.OrderID, 0, len(snapshot))
	for _, o := range snapshot {
		ids = append(ids, o.ID())
	}
	return ids
}
