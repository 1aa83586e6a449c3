package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// OrderStore is the ports.OrderStore backed by the remote backend.
type OrderStore struct {
	client *Client
}

func NewOrderStore(client *Client) *OrderStore {
	return &OrderStore{client: client}
}

// Get calls GET /api/orders/{id}.
func (s *OrderStore) Get(ctx context.Context, creds ports.Credentials, id kernel.OrderID) (order.Order, error) {
	var body orderJSON
	status, err := s.client.do(ctx, "get order", http.MethodGet, orderPath(id), creds.AccessToken, nil, &body)
	if err != nil {
		return order.Order{}, notFound(status, id, err)
	}
	return decodeOrder("get order", body)
}

// UpdateStatus calls PUT /api/orders/{id} with the new status. The backend
// records who made the change from the bearer token and checks the move
// against the status it holds, so from is not sent; a 409 from it is reported
// as a status conflict.
func (s *OrderStore) UpdateStatus(ctx context.Context, creds ports.Credentials, updated order.Order, from order.Status) (order.Order, error) {
	var body orderJSON
	status, err := s.client.do(ctx, "update order status", http.MethodPut, orderPath(updated.ID()), creds.AccessToken,
		updateStatusRequest{Status: updated.CurrentStatus().String()}, &body)
	if status == http.StatusConflict {
		return order.Order{}, ports.NewStatusConflictError(updated.ID(), from)
	}
	if err != nil {
		return order.Order{}, notFound(status, updated.ID(), err)
	}
	return decodeOrder("update order status", body)
}

// Create calls POST /api/orders.
func (s *OrderStore) Create(ctx context.Context, creds ports.Credentials, created order.Order) (order.Order, error) {
	var body orderJSON
	if _, err := s.client.do(ctx, "create order", http.MethodPost, "/api/orders", creds.AccessToken,
		newCreateOrderRequest(created), &body); err != nil {
		return order.Order{}, err
	}
	return decodeOrder("create order", body)
}

// ListByStatus calls GET /api/orders and keeps the orders in statuses,
// oldest first. The status filter is also sent as query parameters for
// backends that support it.
func (s *OrderStore) ListByStatus(ctx context.Context, creds ports.Credentials, statuses []order.Status) ([]order.Order, error) {
	if len(statuses) == 0 {
		return []order.Order{}, nil
	}

	query := url.Values{}
	for _, st := range statuses {
		query.Add("status", st.String())
	}

	var body []orderJSON
	if _, err := s.client.do(ctx, "list orders", http.MethodGet, "/api/orders?"+query.Encode(), creds.AccessToken, nil, &body); err != nil {
		return nil, err
	}

	orders, err := decodeOrders("list orders", body, func(o order.Order) bool {
		return slices.Contains(statuses, o.CurrentStatus())
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, k int) bool { return createdBefore(orders[i], orders[k]) })
	return orders, nil
}

// ListByUser calls GET /api/orders/user. The backend picks the user from the
// bearer token.
func (s *OrderStore) ListByUser(ctx context.Context, creds ports.Credentials) ([]order.Order, error) {
	var body []orderJSON
	if _, err := s.client.do(ctx, "list user orders", http.MethodGet, "/api/orders/user", creds.AccessToken, nil, &body); err != nil {
		return nil, err
	}

	orders, err := decodeOrders("list user orders", body, nil)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, k int) bool { return createdBefore(orders[k], orders[i]) })
	return orders, nil
}

func createdBefore(a, b order.Order) bool {
	if a.CreatedAt().Equal(b.CreatedAt()) {
		return a.ID().Int64() < b.ID().Int64()
	}
	return a.CreatedAt().Before(b.CreatedAt())
}

func orderPath(id kernel.OrderID) string {
	return fmt.Sprintf("/api/orders/%d", id.Int64())
}

func notFound(status int, id kernel.OrderID, err error) error {
	if status == http.StatusNotFound {
		return errs.NewObjectNotFoundErrorWithCause("orderId", id.Int64(), err)
	}
	return err
}

// decodeOrders decodes body, keeping the orders keep accepts. A nil keep
// keeps everything.
func decodeOrders(op string, body []orderJSON, keep func(order.Order) bool) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(body))
	for _, j := range body {
		o, err := decodeOrder(op, j)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(o) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func decodeOrder(op string, body orderJSON) (order.Order, error) {
	o, err := body.toDomain()
	if err != nil {
		return order.Order{}, &ports.RemoteError{Op: op, Err: errors.Join(errors.New("invalid order in response"), err)}
	}
	return o, nil
}
