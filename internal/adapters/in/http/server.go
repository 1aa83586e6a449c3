package http

import (
	"errors"
	"net/http"
	"strings"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/servers"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	createOrderHandler       commands.CreateOrderCommandHandler

	// Query handlers
	statusCatalogHandler      queries.GetStatusCatalogQueryHandler
	allowedTransitionsHandler queries.GetAllowedTransitionsQueryHandler
	roleQueueHandler          queries.GetRoleQueueQueryHandler
	orderHandler              queries.GetOrderQueryHandler
	boardHandler              queries.GetBoardQueryHandler
	historyHandler            queries.GetOrderHistoryQueryHandler
	clientOrdersHandler       queries.GetClientOrdersQueryHandler

	logger *zap.Logger
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	UpdateOrderStatus  commands.UpdateOrderStatusCommandHandler
	CreateOrder        commands.CreateOrderCommandHandler
	StatusCatalog      queries.GetStatusCatalogQueryHandler
	AllowedTransitions queries.GetAllowedTransitionsQueryHandler
	RoleQueue          queries.GetRoleQueueQueryHandler
	Order              queries.GetOrderQueryHandler
	Board              queries.GetBoardQueryHandler
	History            queries.GetOrderHistoryQueryHandler
	ClientOrders       queries.GetClientOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{
		updateOrderStatusHandler:  handlers.UpdateOrderStatus,
		createOrderHandler:        handlers.CreateOrder,
		statusCatalogHandler:      handlers.StatusCatalog,
		allowedTransitionsHandler: handlers.AllowedTransitions,
		roleQueueHandler:          handlers.RoleQueue,
		orderHandler:              handlers.Order,
		boardHandler:              handlers.Board,
		historyHandler:            handlers.History,
		clientOrdersHandler:       handlers.ClientOrders,
		logger:                    logger,
	}
}

// ListStatuses handles GET /api/v1/statuses.
func (s *Server) ListStatuses(ctx echo.Context) error {
	views, err := s.statusCatalogHandler.Handle(ctx.Request().Context(), queries.NewGetStatusCatalogQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toStatuses(views))
}

// ListTransitions handles GET /api/v1/roles/{role}/transitions?status=XX.
func (s *Server) ListTransitions(ctx echo.Context, role string, params servers.ListTransitionsParams) error {
	acting, roleErr := order.ParseRole(role)
	current, statusErr := order.ParseStatus(params.Status)
	if err := errors.Join(roleErr, statusErr); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetAllowedTransitionsQuery(acting, current)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.allowedTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toStatuses(views))
}

// GetRoleQueue handles GET /api/v1/roles/{role}/queue.
func (s *Server) GetRoleQueue(ctx echo.Context, role string) error {
	acting, err := order.ParseRole(role)
	if err != nil {
		return s.fail(ctx, err)
	}

	creds := credentialsFrom(ctx)
	query, err := queries.NewGetRoleQueueQuery(acting, creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.roleQueueHandler.Handle(ctx.Request().Context(), query)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(result.Orders))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Kind:    servers.KindValidation,
			Message: "Invalid request body",
		})
	}

	items := make([]order.Item, len(body.Items))
	for i, it := range body.Items {
		items[i] = order.Item{ProductID: it.ProductId, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}

	creds := credentialsFrom(ctx)
	cmd, err := commands.NewCreateOrderCommand(body.UserId, items, body.ScheduledAt, creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(result.Order))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId int64) error {
	id, err := kernel.NewOrderID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	creds := credentialsFrom(ctx)
	query, err := queries.NewGetOrderQuery(id, creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.orderHandler.Handle(ctx.Request().Context(), query)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(result.Order))
}

// UpdateOrderStatus handles PUT /api/v1/orders/{orderId}/status.
//
// The acting role comes from X-User-Role. Asking for the status the order
// already has succeeds with changed=false.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderId int64) error {
	var body servers.UpdateOrderStatusJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Kind:    servers.KindValidation,
			Message: "Invalid request body",
		})
	}

	id, idErr := kernel.NewOrderID(orderId)
	acting, roleErr := order.ParseRole(ctx.Request().Header.Get(servers.HeaderUserRole))
	target, statusErr := order.ParseStatus(body.Status)
	if err := errors.Join(idErr, roleErr, statusErr); err != nil {
		return s.fail(ctx, err)
	}

	creds := credentialsFrom(ctx)
	cmd, err := commands.NewUpdateOrderStatusCommand(id, acting, target, creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.StatusUpdateResult{
		Order:   toOrder(result.Order),
		Changed: result.Changed,
	})
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderId int64) error {
	id, err := kernel.NewOrderID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	creds := credentialsFrom(ctx)
	query, err := queries.NewGetOrderHistoryQuery(id, creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.historyHandler.Handle(ctx.Request().Context(), query)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.HistoryEntry, len(result.Entries))
	for i, e := range result.Entries {
		response[i] = servers.HistoryEntry{
			Status:    e.Status.String(),
			UpdatedBy: e.UpdatedBy,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ListMyOrders handles GET /api/v1/users/me/orders.
func (s *Server) ListMyOrders(ctx echo.Context) error {
	creds := credentialsFrom(ctx)
	query, err := queries.NewGetClientOrdersQuery(creds)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.clientOrdersHandler.Handle(ctx.Request().Context(), query)
	setCredentials(ctx, creds, result.Credentials)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(result.Orders))
}

// GetBoard handles GET /api/v1/board.
func (s *Server) GetBoard(ctx echo.Context) error {
	orders, err := s.boardHandler.Handle(ctx.Request().Context(), queries.NewGetBoardQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(orders))
}

// credentialsFrom reads the caller's session from the request headers.
func credentialsFrom(ctx echo.Context) ports.Credentials {
	h := ctx.Request().Header
	return ports.Credentials{
		Identity:     strings.TrimSpace(h.Get(servers.HeaderUserEmail)),
		AccessToken:  strings.TrimSpace(strings.TrimPrefix(h.Get(echo.HeaderAuthorization), "Bearer ")),
		RefreshToken: h.Get(servers.HeaderRefreshToken),
	}
}

// setCredentials hands refreshed tokens back to the dashboard.
func setCredentials(ctx echo.Context, before, after ports.Credentials) {
	if after.AccessToken == "" || after == before {
		return
	}
	ctx.Response().Header().Set(servers.HeaderAccessToken, after.AccessToken)
	ctx.Response().Header().Set(servers.HeaderRefreshToken, after.RefreshToken)
}

func toStatuses(views []queries.StatusView) []servers.Status {
	response := make([]servers.Status, len(views))
	for i, v := range views {
		response[i] = servers.Status{Code: v.Status.String(), Label: v.Label, Terminal: v.Terminal}
	}
	return response
}

func toOrders(orders []order.Order) []servers.Order {
	response := make([]servers.Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	return response
}

func toOrder(o order.Order) servers.Order {
	label, _ := o.CurrentStatus().Label()

	items := make([]servers.OrderItem, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, servers.OrderItem{
			ProductId: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return servers.Order{
		Id:          o.ID().Int64(),
		UserId:      o.UserID(),
		Status:      o.CurrentStatus().String(),
		StatusLabel: label,
		Items:       items,
		TotalPrice:  o.TotalPrice(),
		ScheduledAt: o.ScheduledAt(),
		CreatedAt:   o.CreatedAt(),
		ModifiedAt:  o.ModifiedAt(),
		CreatedBy:   o.CreatedBy(),
		ModifiedBy:  o.ModifiedBy(),
	}
}
