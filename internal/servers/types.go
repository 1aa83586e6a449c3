// Package servers holds the transport contract of the HTTP API: the wire
// types, the handler interface with its echo routing wrapper, and the
// parsed OpenAPI document from api/openapi.yml.
//
// The package is maintained by hand alongside api/openapi.yml, in the shape
// oapi-codegen's echo server output takes. TestRegisterHandlers_MatchesDocument
// fails when a documented operation has no route or a route is undocumented.
package servers

import "time"

// Header names carried by dashboard requests.
const (
	HeaderUserRole     = "X-User-Role"
	HeaderUserEmail    = "X-User-Email"
	HeaderRefreshToken = "X-Refresh-Token"
	HeaderAccessToken  = "X-Access-Token"
)

// Error kinds returned in Error.Kind.
const (
	KindValidation        = "validation"
	KindUnknownStatus     = "unknown_status"
	KindOrderNotFound     = "order_not_found"
	KindInvalidTransition = "invalid_transition"
	KindUnauthorized      = "unauthorized"
	KindAuthExpired       = "auth_expired"
	KindRemote            = "remote"
	KindInternal          = "internal"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Status defines model for Status.
type Status struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Terminal bool   `json:"terminal"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	ProductId int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unitPrice"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	UserId      int64       `json:"userId"`
	Items       []OrderItem `json:"items"`
	ScheduledAt *time.Time  `json:"scheduledAt,omitempty"`
}

// Order defines model for Order.
type Order struct {
	Id          int64       `json:"id"`
	UserId      int64       `json:"userId"`
	Status      string      `json:"status"`
	StatusLabel string      `json:"statusLabel"`
	Items       []OrderItem `json:"items"`
	TotalPrice  int64       `json:"totalPrice"`
	ScheduledAt *time.Time  `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	ModifiedAt  time.Time   `json:"modifiedAt"`
	CreatedBy   string      `json:"createdBy"`
	ModifiedBy  string      `json:"modifiedBy"`
}

// StatusUpdate defines model for StatusUpdate.
type StatusUpdate struct {
	Status string `json:"status"`
}

// StatusUpdateResult defines model for StatusUpdateResult.
type StatusUpdateResult struct {
	Order   Order `json:"order"`
	Changed bool  `json:"changed"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListTransitionsParams defines parameters for ListTransitions.
type ListTransitionsParams struct {
	// Status is the current status code.
	Status string `form:"status" json:"status"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// UpdateOrderStatusJSONRequestBody defines body for UpdateOrderStatus for application/json ContentType.
type UpdateOrderStatusJSONRequestBody = StatusUpdate
