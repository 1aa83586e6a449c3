package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/notifications"
	"orderflow/internal/adapters/out/broker"
	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/restapi"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/logger"

	"go.uber.org/zap"
)

// Subscriber consumes status-change notifications until ctx is done.
type Subscriber interface {
	Run(ctx context.Context) error
}

type CompositionRoot struct {
	cfg    Config
	logger *zap.Logger

	store     ports.OrderStore
	history   ports.OrderHistoryReader
	refresher ports.TokenRefresher
	publisher ports.StatusPublisher
	inProcess *broker.MemoryPublisher
	board     *memory.Board
	service   *session.Service

	closers []io.Closer
}

func NewCompositionRoot(cfg Config, l *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		logger: l,
		board:  memory.NewBoard(),
	}

	if err := c.initStore(); err != nil {
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.service = session.NewService(c.refresher, cfg.ServiceCredentials())

	return c, nil
}

func (c *CompositionRoot) initStore() error {
	switch c.cfg.OrderStore {
	case StoreREST:
		client := restapi.NewClient(c.cfg.BackendURL, c.cfg.BackendTimeout, logger.Component(c.logger, "restapi"))
		c.store = restapi.NewOrderStore(client)
		c.history = restapi.NewHistoryReader(client)
		c.refresher = restapi.NewTokenRefresher(client)
	default:
		db, err := postgres.Open(c.cfg.DSN(), c.cfg.DBMaxOpenConns)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB)
		c.store = postgres.NewOrderStore(postgres.NewGormUnitOfWorkFactory(db))
		c.history = postgres.NewHistoryReader(db)
		c.refresher = noRefresh{}
	}
	return nil
}

func (c *CompositionRoot) initPublisher() error {
	switch c.cfg.NotifyBroker {
	case BrokerKafka:
		p := broker.NewKafkaPublisher(c.cfg.KafkaBrokers, c.cfg.KafkaTopic)
		c.publisher = p
		c.closers = append(c.closers, p)
	case BrokerRabbitMQ:
		p, err := broker.DialRabbitPublisher(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange)
		if err != nil {
			return fmt.Errorf("connect publisher: %w", err)
		}
		c.publisher = p
		c.closers = append(c.closers, p)
	default:
		c.inProcess = broker.NewMemoryPublisher()
		c.publisher = c.inProcess
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var result []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		result = append(result, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(result...)
}

func (c *CompositionRoot) clock() time.Time {
	return time.Now().UTC()
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.store, c.refresher, c.publisher, c.clock, logger.Component(c.logger, "update_order_status"),
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.store, c.refresher, c.publisher, c.clock, logger.Component(c.logger, "create_order"),
	)
}

func (c *CompositionRoot) CreateApplyStatusNotificationCommandHandler() commands.ApplyStatusNotificationCommandHandler {
	return commands.NewApplyStatusNotificationCommandHandler(
		c.board, c.store, c.service, logger.Component(c.logger, "apply_status_notification"),
	)
}

func (c *CompositionRoot) CreateSyncBoardCommandHandler() commands.SyncBoardCommandHandler {
	return commands.NewSyncBoardCommandHandler(c.board, c.store, c.service, logger.Component(c.logger, "sync_board"))
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.history, c.refresher)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		UpdateOrderStatus:  c.CreateUpdateOrderStatusCommandHandler(),
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		StatusCatalog:      queries.NewGetStatusCatalogQueryHandler(),
		AllowedTransitions: queries.NewGetAllowedTransitionsQueryHandler(),
		RoleQueue:          queries.NewGetRoleQueueQueryHandler(c.store, c.refresher),
		Order:              queries.NewGetOrderQueryHandler(c.store, c.refresher),
		Board:              queries.NewGetBoardQueryHandler(c.board),
		History:            c.CreateGetOrderHistoryQueryHandler(),
		ClientOrders:       queries.NewGetClientOrdersQueryHandler(c.store, c.refresher),
	}, logger.Component(c.logger, "http"))
}

func (c *CompositionRoot) CreateSubscriber() Subscriber {
	handler := c.CreateApplyStatusNotificationCommandHandler()
	l := logger.Component(c.logger, "notifications")

	switch c.cfg.NotifyBroker {
	case BrokerKafka:
		return notifications.NewKafkaSubscriber(notifications.KafkaConfig{
			Brokers: c.cfg.KafkaBrokers,
			Topic:   c.cfg.KafkaTopic,
			GroupID: c.cfg.KafkaGroupID,
		}, handler, l)
	case BrokerRabbitMQ:
		return notifications.NewRabbitSubscriber(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange, handler, l)
	default:
		return notifications.NewMemorySubscriber(c.inProcess, handler, l)
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateSyncBoardCommandHandler(), c.cfg.ResyncSchedule, c.logger)
}

// noRefresh stands in for the auth service when the store is the local
// database, which never rejects credentials.
type noRefresh struct{}

func (noRefresh) Refresh(context.Context, ports.Credentials) (ports.Credentials, error) {
	return ports.Credentials{}, fmt.Errorf("no token refresh without an auth service: %w", ports.ErrUnauthorized)
}
