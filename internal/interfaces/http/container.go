package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingApp "github.com/piprapay/ppgateway/internal/application/billing"
	paymentUsecases "github.com/piprapay/ppgateway/internal/application/payment/usecases"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/infrastructure/cache"
	"github.com/piprapay/ppgateway/internal/infrastructure/config"
	"github.com/piprapay/ppgateway/internal/infrastructure/payment/piprapay"
	"github.com/piprapay/ppgateway/internal/infrastructure/repository"
	"github.com/piprapay/ppgateway/internal/interfaces/http/handlers"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/logger"
	"github.com/piprapay/ppgateway/internal/shared/utils"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers, wires them together and releases them on Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *useCases

	// Handlers
	hdlrs *allHandlers
}

type repositories struct {
	invoices *repository.InvoiceRepository
	clients  *repository.ClientRepository
	txns     *repository.TransactionRepository
	ledger   *repository.LedgerRepository
	receipts *repository.PaymentReceiptRepository
}

type useCases struct {
	createCharge        *paymentUsecases.CreateChargeUseCase
	reconcilePayment    *paymentUsecases.ReconcilePaymentUseCase
	processNotification *paymentUsecases.ProcessNotificationUseCase
}

type allHandlers struct {
	payment *handlers.PaymentHandler
	health  *handlers.HealthHandler
}

// NewContainer wires every component from cfg. It fails when the gateway
// settings are unusable.
func NewContainer(cfg *config.Config, gormDB *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gormDB,
		cfg:    cfg,
		log:    log,
	}

	c.initRepositories()

	if err := c.initUseCases(); err != nil {
		return nil, err
	}

	if err := c.initHandlers(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		invoices: repository.NewInvoiceRepository(c.db),
		clients:  repository.NewClientRepository(c.db),
		txns:     repository.NewTransactionRepository(c.db),
		ledger:   repository.NewLedgerRepository(c.db),
		receipts: repository.NewPaymentReceiptRepository(c.db),
	}
}

func (c *Container) initUseCases() error {
	gwCfg := c.cfg.Gateway

	client, err := piprapay.NewClient(gwCfg, c.log.Named("piprapay"))
	if err != nil {
		return err
	}
	gateway := piprapay.NewGateway(client, c.log.Named("piprapay"))
	c.log.Infow("payment gateway configured",
		"api_url", gwCfg.APIURL,
		"api_key", utils.MaskSecret(gwCfg.APIKey),
		"breaker", gwCfg.Breaker.Enabled,
	)

	currency := vo.CurrencyOrDefault(gwCfg.Currency, vo.DefaultCurrency)

	funds := billingApp.NewFundsService(c.repos.clients, c.repos.invoices, c.repos.ledger, c.log)

	createCharge := paymentUsecases.NewCreateChargeUseCase(
		c.repos.invoices,
		c.repos.clients,
		gateway,
		paymentUsecases.ChargeSettings{
			BaseURL:   c.cfg.Server.BaseURL,
			Currency:  currency,
			CancelURL: gwCfg.CancelURL,
			NotifyURL: gwCfg.NotifyURL,
		},
		c.log,
	)

	reconcile := paymentUsecases.NewReconcilePaymentUseCase(
		c.repos.invoices,
		c.repos.txns,
		c.repos.clients,
		c.repos.receipts,
		funds,
		db.NewTransactionManager(c.db),
		piprapay.Name,
		c.log,
	)

	var guard paymentUsecases.NotificationGuard
	if lock := c.initNotificationLock(); lock != nil {
		guard = lock
	}

	processNotification := paymentUsecases.NewProcessNotificationUseCase(
		c.repos.txns,
		gateway,
		reconcile,
		guard,
		piprapay.Name,
		c.log,
	)

	c.ucs = &useCases{
		createCharge:        createCharge,
		reconcilePayment:    reconcile,
		processNotification: processNotification,
	}
	return nil
}

// initNotificationLock connects to Redis when enabled. An unreachable server
// is logged; the lock then reports errors and processing continues without it.
func (c *Container) initNotificationLock() *cache.NotificationLock {
	if !c.cfg.Redis.Enabled {
		return nil
	}

	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		c.log.Warnw("redis unreachable, notification lock degraded", "addr", c.cfg.Redis.GetAddr(), "error", err)
	} else {
		c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	}

	return cache.NewNotificationLock(c.redis, c.cfg.Redis.LockTTL, c.log.Named("notification_lock"))
}

func (c *Container) initHandlers() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	info := paymentUsecases.NewGatewayInfo(piprapay.Name, vo.CurrencyOrDefault(c.cfg.Gateway.Currency, vo.DefaultCurrency))

	c.hdlrs = &allHandlers{
		payment: handlers.NewPaymentHandler(
			c.ucs.createCharge,
			c.ucs.processNotification,
			c.repos.invoices,
			info,
			c.cfg.Gateway.AutoRedirect,
			c.log,
		),
		health: handlers.NewHealthHandler(sqlDB),
	}
	return nil
}

// CreateChargeUseCase is exposed for the operator CLI.
func (c *Container) CreateChargeUseCase() *paymentUsecases.CreateChargeUseCase {
	return c.ucs.createCharge
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown releases connections the container opened.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
