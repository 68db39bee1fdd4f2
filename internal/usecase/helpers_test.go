package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/events"
	"storefront/internal/identity"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/payment"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// 共通の部品
// =====================

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.EventType)
	}
	return out
}

func asUser(userID string) context.Context {
	return identity.WithUserID(context.Background(), userID)
}

func anonymous() context.Context {
	return context.Background()
}

func validAddress() *model.ShippingAddress {
	return &model.ShippingAddress{
		Name:       "Kim Minsu",
		Phone:      "010-1234-5678",
		Address:    "Seoul, Gangnam-gu 123",
		PostalCode: "06236",
	}
}

// =====================
// memoryストアで組んだ環境
// =====================

type testEnv struct {
	store    *memory.Store
	pub      *recordingPublisher
	products *usecase.ProductUsecase
	cart     *usecase.CartUsecase
	orders   *usecase.OrderUsecase
	payments *usecase.PaymentUsecase
	admin    *usecase.AdminOrderUsecase
}

type envOption func(*envConfig)

type envConfig struct {
	tx        repo.TransactionManager
	wrapTx    func(repo.TransactionManager) repo.TransactionManager
	cartItems repo.CartItemRepository
	gateway   payment.Gateway
}

// ストアのTxManagerを包む（Tx内のリポジトリ差し替え用）
func wrapTx(fn func(repo.TransactionManager) repo.TransactionManager) envOption {
	return func(c *envConfig) { c.wrapTx = fn }
}

func withCartItems(r repo.CartItemRepository) envOption {
	return func(c *envConfig) { c.cartItems = r }
}

func withGateway(g payment.Gateway) envOption {
	return func(c *envConfig) { c.gateway = g }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.SetClock(func() time.Time { return testNow })

	cfg := envConfig{
		tx:        store.TxManager(),
		cartItems: store.CartItems(),
		gateway:   payment.NewMockGateway(true, ""),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.wrapTx != nil {
		cfg.tx = cfg.wrapTx(cfg.tx)
	}

	log := zap.NewNop()
	auth := identity.ContextProvider{}
	pub := &recordingPublisher{}
	clock := fixedClock{t: testNow}

	orders := usecase.NewOrderUsecase(usecase.OrderDeps{
		Auth:       auth,
		Tx:         cfg.tx,
		Orders:     store.Orders(),
		OrderItems: store.OrderItems(),
		CartItems:  cfg.cartItems,
		Validator:  validator.NewCheckoutValidator(),
		Publisher:  pub,
		IDs:        uuidGen{},
		Clock:      clock,
		Log:        log,
	})

	return &testEnv{
		store:    store,
		pub:      pub,
		products: usecase.NewProductUsecase(store.Products()),
		cart:     usecase.NewCartUsecase(auth, cfg.cartItems, store.Products(), uuidGen{}, log),
		orders:   orders,
		payments: usecase.NewPaymentUsecase(auth, store.Orders(), store.OrderItems(), cfg.gateway, orders, log),
		admin:    usecase.NewAdminOrderUsecase(cfg.tx, store.AuditLogs(), pub, clock, log),
	}
}

type productOpt func(*model.Product)

func inactive() productOpt {
	return func(p *model.Product) { p.IsActive = false }
}

func inCategory(c model.ProductCategory) productOpt {
	return func(p *model.Product) { p.Category = &c }
}

func createdAt(t time.Time) productOpt {
	return func(p *model.Product) { p.CreatedAt = t }
}

func (e *testEnv) seedProduct(t *testing.T, name string, price int64, stock int64, opts ...productOpt) model.Product {
	t.Helper()

	p := model.Product{
		ID:            uuid.NewString(),
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
	for _, o := range opts {
		o(&p)
	}
	created, err := e.store.Products().Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

type line struct {
	product model.Product
	qty     int64
}

// カートに入れて注文まで作る
func (e *testEnv) placeOrder(t *testing.T, userID string, lines ...line) string {
	t.Helper()

	ctx := asUser(userID)
	for _, l := range lines {
		require.NoError(t, e.cart.AddToCart(ctx, l.product.ID, l.qty))
	}
	view, err := e.cart.GetCartItems(ctx)
	require.NoError(t, err)

	orderID, err := e.orders.CreateOrder(ctx, usecase.CreateOrderInput{
		Items:           view.Items,
		ShippingAddress: validAddress(),
	})
	require.NoError(t, err)
	return orderID
}

func (e *testEnv) orderStatus(t *testing.T, orderID string) model.OrderStatus {
	t.Helper()
	o, err := e.store.Orders().FindByID(context.Background(), orderID)
	require.NoError(t, err)
	return o.Status
}

func requireHTTPError(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status, he.Message)
	return he
}
