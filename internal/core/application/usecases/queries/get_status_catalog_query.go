package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrGetStatusCatalogQueryIsNotConstructed = errors.New(
	"GetStatusCatalogQuery must be created via NewGetStatusCatalogQuery constructor",
)

// GetStatusCatalogQuery lists every status with its label, in lifecycle order.
type GetStatusCatalogQuery struct {
	guard guard.ConstructorGuard
}

func NewGetStatusCatalogQuery() GetStatusCatalogQuery {
	return GetStatusCatalogQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStatusCatalogQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusCatalogQueryIsNotConstructed)
}

// GetStatusCatalogQueryHandler answers from the built-in catalog.
type GetStatusCatalogQueryHandler struct{}

func NewGetStatusCatalogQueryHandler() GetStatusCatalogQueryHandler {
	return GetStatusCatalogQueryHandler{}
}

func (h GetStatusCatalogQueryHandler) Handle(_ context.Context, query GetStatusCatalogQuery) ([]StatusView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return statusViews(order.Statuses())
}
