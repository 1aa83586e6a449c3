package restapi

import (
	"math"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// orderJSON is the backend's order representation. Prices are decimal
// currency units on the wire and cents in the domain.
type orderJSON struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Status      string     `json:"status"`
	Items       []itemJSON `json:"items"`
	TotalPrice  float64    `json:"totalPrice,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ModifiedAt  *time.Time `json:"modifiedAt,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	ModifiedBy  string     `json:"modifiedBy,omitempty"`
}

type itemJSON struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

// orderDetailsJSON is the body of GET /api/orders/{id}/details.
type orderDetailsJSON struct {
	Order         orderJSON           `json:"order"`
	StatusHistory []statusHistoryJSON `json:"statusHistory"`
}

type statusHistoryJSON struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type createOrderRequest struct {
	UserID      int64      `json:"userId"`
	Items       []itemJSON `json:"items"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

type refreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func newCreateOrderRequest(o order.Order) createOrderRequest {
	items := o.Items()
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, itemJSON{ProductID: item.ProductID, Quantity: item.Quantity, Price: fromCents(item.UnitPrice)})
	}
	return createOrderRequest{UserID: o.UserID(), Items: out, ScheduledAt: o.ScheduledAt()}
}

// toDomain rebuilds the order. Fields the backend leaves out fall back to
// their creation counterparts.
func (j orderJSON) toDomain() (order.Order, error) {
	id, err := kernel.NewOrderID(j.ID)
	if err != nil {
		return order.Order{}, err
	}

	status, err := order.ParseStatus(j.Status)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]order.Item, 0, len(j.Items))
	for _, item := range j.Items {
		items = append(items, order.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: toCents(item.Price),
		})
	}

	modifiedAt := j.CreatedAt
	if j.ModifiedAt != nil {
		modifiedAt = *j.ModifiedAt
	}
	modifiedBy := j.ModifiedBy
	if modifiedBy == "" {
		modifiedBy = j.CreatedBy
	}

	return order.RestoreOrder(order.State{
		ID:          id,
		UserID:      j.UserID,
		Items:       items,
		Status:      status,
		ScheduledAt: j.ScheduledAt,
		CreatedAt:   j.CreatedAt,
		ModifiedAt:  modifiedAt,
		CreatedBy:   j.CreatedBy,
		ModifiedBy:  modifiedBy,
	})
}
