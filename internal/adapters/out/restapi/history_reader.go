package restapi

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// HistoryReader is the ports.OrderHistoryReader backed by the backend's
// order details endpoint.
type HistoryReader struct {
	client *Client
}

func NewHistoryReader(client *Client) *HistoryReader {
	return &HistoryReader{client: client}
}

// History calls GET /api/orders/{id}/details and returns its status history
// oldest first.
func (r *HistoryReader) History(ctx context.Context, creds ports.Credentials, id kernel.OrderID) ([]ports.StatusChange, error) {
	const op = "get order details"

	var body orderDetailsJSON
	status, err := r.client.do(ctx, op, http.MethodGet, orderPath(id)+"/details", creds.AccessToken, nil, &body)
	if err != nil {
		return nil, notFound(status, id, err)
	}

	sort.SliceStable(body.StatusHistory, func(i, k int) bool {
		a, b := body.StatusHistory[i], body.StatusHistory[k]
		if a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.ID < b.ID
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	})

	changes := make([]ports.StatusChange, 0, len(body.StatusHistory))
	for _, h := range body.StatusHistory {
		s, parseErr := order.ParseStatus(h.Status)
		if parseErr != nil {
			return nil, &ports.RemoteError{Op: op, Err: errors.Join(errors.New("invalid history in response"), parseErr)}
		}
		changes = append(changes, ports.StatusChange{Status: s, UpdatedBy: h.UpdatedBy, UpdatedAt: h.UpdatedAt})
	}
	return changes, nil
}
