package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/identity"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/logger"
	"storefront/internal/payment"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// ストアごとのリポジトリ一式
type stores struct {
	products   repo.ProductRepository
	cartItems  repo.CartItemRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  repo.AuditLogRepository
	tx         repo.TransactionManager
	pinger     handler.Pinger
	close      func()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Repository生成
	st, err := openStores(ctx, cfg, log, idGen, clock)
	if err != nil {
		return err
	}
	defer st.close()

	//注文イベント
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer conn.Close()

		rp, err := events.NewRabbitPublisher(conn)
		if err != nil {
			return fmt.Errorf("rabbitmq publisher: %w", err)
		}
		defer rp.Close()
		publisher = rp
		log.Info("order events enabled", zap.String("queue", events.OrderEventsQueue))
	}

	//レート制限
	var rdb redis.Cmdable
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed; rate limit will fail open", zap.Error(err))
		}
		defer client.Close()
		rdb = client
	}

	auth := identity.ContextProvider{}
	gateway := payment.NewMockGateway(cfg.MockPayment, cfg.PaymentSecretKey)

	//Usecase生成
	productUC := usecase.NewProductUsecase(st.products)
	cartUC := usecase.NewCartUsecase(auth, st.cartItems, st.products, idGen, log)
	orderUC := usecase.NewOrderUsecase(usecase.OrderDeps{
		Auth:       auth,
		Tx:         st.tx,
		Orders:     st.orders,
		OrderItems: st.orderItems,
		CartItems:  st.cartItems,
		Validator:  validator.NewCheckoutValidator(),
		Publisher:  publisher,
		IDs:        idGen,
		Clock:      clock,
		Log:        log,
	})
	paymentUC := usecase.NewPaymentUsecase(auth, st.orders, st.orderItems, gateway, orderUC, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(st.tx, st.auditLogs, publisher, clock, log)

	//Handler生成
	e := server.New(cfg, log, rdb, server.Handlers{
		Health:     handler.NewHealthHandler(st.pinger),
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC, log),
		Order:      handler.NewOrderHandler(orderUC, cartUC),
		Payment:    handler.NewPaymentHandler(paymentUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	})

	return server.Start(ctx, e, cfg.Addr(), log)
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger, ids usecase.IDGenerator, clock usecase.Clock) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		s := memory.NewStore()
		if err := seedDemoProducts(ctx, s.Products(), ids, clock); err != nil {
			return stores{}, fmt.Errorf("seed: %w", err)
		}
		log.Info("using in-memory store")
		return stores{
			products:   s.Products(),
			cartItems:  s.CartItems(),
			orders:     s.Orders(),
			orderItems: s.OrderItems(),
			auditLogs:  s.AuditLogs(),
			tx:         s.TxManager(),
			close:      func() {},
		}, nil
	}

	//DB接続＋マイグレーション
	gormDB, err := db.ConnectAndMigrate(cfg, log)
	if err != nil {
		return stores{}, fmt.Errorf("db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return stores{}, fmt.Errorf("db: %w", err)
	}

	return stores{
		products:   infraRepo.NewProductGormRepository(gormDB),
		cartItems:  infraRepo.NewCartItemGormRepository(gormDB),
		orders:     infraRepo.NewOrderGormRepository(gormDB),
		orderItems: infraRepo.NewOrderItemGormRepository(gormDB),
		auditLogs:  infraRepo.NewAuditLogGormRepository(gormDB),
		tx:         infraRepo.NewTxManagerGorm(gormDB),
		pinger:     sqlDB,
		close:      func() { _ = sqlDB.Close() },
	}, nil
}

// memoryストア用のサンプル商品
func seedDemoProducts(ctx context.Context, products repo.ProductRepository, ids usecase.IDGenerator, clock usecase.Clock) error {
	category := func(c model.ProductCategory) *model.ProductCategory { return &c }

	seed := []model.Product{
		{Name: "Wireless Mouse", Description: "2.4GHz silent mouse", Price: 29000, Category: category(model.CategoryElectronics), StockQuantity: 50},
		{Name: "Cotton T-Shirt", Description: "Plain white tee", Price: 15000, Category: category(model.CategoryClothing), StockQuantity: 100},
		{Name: "Go Programming", Description: "Paperback", Price: 38000, Category: category(model.CategoryBooks), StockQuantity: 20},
		{Name: "Yoga Mat", Description: "6mm non-slip", Price: 25000, Category: category(model.CategorySports), StockQuantity: 5},
		{Name: "Gift Card", Description: "Uncategorised item", Price: 10000, StockQuantity: 1000},
	}

	base := clock.Now()
	for i, p := range seed {
		p.ID = ids.NewID()
		p.IsActive = true
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
		if _, err := products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
