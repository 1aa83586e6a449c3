package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List the status catalog
	// (GET /api/v1/statuses)
	ListStatuses(ctx echo.Context) error
	// List the statuses a role may move an order to
	// (GET /api/v1/roles/{role}/transitions)
	ListTransitions(ctx echo.Context, role string, params ListTransitionsParams) error
	// List the orders waiting on a role
	// (GET /api/v1/roles/{role}/queue)
	GetRoleQueue(ctx echo.Context, role string) error
	// Place an order
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Read one order
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId int64) error
	// Move an order to a new status
	// (PUT /api/v1/orders/{orderId}/status)
	UpdateOrderStatus(ctx echo.Context, orderId int64) error
	// List the statuses an order went through
	// (GET /api/v1/orders/{orderId}/history)
	GetOrderHistory(ctx echo.Context, orderId int64) error
	// List the caller's own orders with their current statuses
	// (GET /api/v1/users/me/orders)
	ListMyOrders(ctx echo.Context) error
	// Snapshot of the converged dashboard board
	// (GET /api/v1/board)
	GetBoard(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListStatuses converts echo context to params.
func (w *ServerInterfaceWrapper) ListStatuses(ctx echo.Context) error {
	return w.Handler.ListStatuses(ctx)
}

// ListTransitions converts echo context to params.
func (w *ServerInterfaceWrapper) ListTransitions(ctx echo.Context) error {
	var role string
	err := runtime.BindStyledParameterWithLocation("simple", false, "role", runtime.ParamLocationPath, ctx.Param("role"), &role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter role: %s", err))
	}

	var params ListTransitionsParams
	err = runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.ListTransitions(ctx, role, params)
}

// GetRoleQueue converts echo context to params.
func (w *ServerInterfaceWrapper) GetRoleQueue(ctx echo.Context) error {
	var role string
	err := runtime.BindStyledParameterWithLocation("simple", false, "role", runtime.ParamLocationPath, ctx.Param("role"), &role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter role: %s", err))
	}

	return w.Handler.GetRoleQueue(ctx, role)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

// UpdateOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderStatus(ctx, orderId)
}

// GetOrderHistory converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderHistory(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrderHistory(ctx, orderId)
}

// ListMyOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListMyOrders(ctx echo.Context) error {
	return w.Handler.ListMyOrders(ctx)
}

// GetBoard converts echo context to params.
func (w *ServerInterfaceWrapper) GetBoard(ctx echo.Context) error {
	return w.Handler.GetBoard(ctx)
}

func bindOrderID(ctx echo.Context) (int64, error) {
	var orderId int64
	err := runtime.BindStyledParameterWithLocation("simple", false, "orderId", runtime.ParamLocationPath, ctx.Param("orderId"), &orderId)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group the routes need.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, prefixing every path with baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/api/v1/board", wrapper.GetBoard)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId/history", wrapper.GetOrderHistory)
	router.PUT(baseURL+"/api/v1/orders/:orderId/status", wrapper.UpdateOrderStatus)
	router.GET(baseURL+"/api/v1/roles/:role/queue", wrapper.GetRoleQueue)
	router.GET(baseURL+"/api/v1/roles/:role/transitions", wrapper.ListTransitions)
	router.GET(baseURL+"/api/v1/statuses", wrapper.ListStatuses)
	router.GET(baseURL+"/api/v1/users/me/orders", wrapper.ListMyOrders)
}
