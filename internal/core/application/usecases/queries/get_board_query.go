package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrGetBoardQueryIsNotConstructed = errors.New(
	"GetBoardQuery must be created via NewGetBoardQuery constructor",
)

// GetBoardQuery returns the converged board, the orders as the notification
// subscriber and the resync job last saw them.
type GetBoardQuery struct {
	guard guard.ConstructorGuard
}

func NewGetBoardQuery() GetBoardQuery {
	return GetBoardQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetBoardQueryIsNotConstructed)
}

// GetBoardQueryHandler reads the board; it never calls the store.
type GetBoardQueryHandler struct {
	board ports.OrderBoard
}

func NewGetBoardQueryHandler(board ports.OrderBoard) GetBoardQueryHandler {
	return GetBoardQueryHandler{board: board}
}

// Handle returns the held orders ordered by id.
func (h GetBoardQueryHandler) Handle(_ context.Context, query GetBoardQuery) ([]order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.board.Snapshot(), nil
}
