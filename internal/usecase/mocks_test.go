package usecase_test

import (
	"context"

	"storefront/internal/domain/model"
	"storefront/internal/payment"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// CartItemRepository モック
// =====================

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) SumQuantityByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) FindOwned(ctx context.Context, cartItemID string, userID string) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID, userID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) CompareAndSetQuantity(ctx context.Context, cartItemID string, expected int64, qty int64) (bool, error) {
	args := m.Called(ctx, cartItemID, expected, qty)
	return args.Bool(0), args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	return m.Called(ctx, cartItemID, qty).Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID string) error {
	return m.Called(ctx, cartItemID).Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var _ repo.CartItemRepository = (*CartItemRepoMock)(nil)

// =====================
// OrderItemRepository モック（明細作成の失敗用）
// =====================

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

var _ repo.OrderItemRepository = (*OrderItemRepoMock)(nil)

// =====================
// OrderRepository スパイ（補償削除の呼び出し確認用）
// =====================

type OrderRepoSpy struct {
	repo.OrderRepository
	mock.Mock
}

func (m *OrderRepoSpy) DeleteByID(ctx context.Context, orderID string) error {
	m.Called(ctx, orderID)
	return m.OrderRepository.DeleteByID(ctx, orderID)
}

// =====================
// AuditLogRepository モック
// =====================

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

var _ repo.AuditLogRepository = (*AuditLogRepoMock)(nil)

// =====================
// Tx の中のリポジトリを差し替える（nilなら元のまま）
// =====================

type txReposOverride struct {
	repo.TxRepos
	orders     func(repo.OrderRepository) repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  func(repo.AuditLogRepository) repo.AuditLogRepository
}

func (r txReposOverride) Orders() repo.OrderRepository {
	if r.orders != nil {
		return r.orders(r.TxRepos.Orders())
	}
	return r.TxRepos.Orders()
}

func (r txReposOverride) OrderItems() repo.OrderItemRepository {
	if r.orderItems != nil {
		return r.orderItems
	}
	return r.TxRepos.OrderItems()
}

func (r txReposOverride) AuditLogs() repo.AuditLogRepository {
	if r.auditLogs != nil {
		return r.auditLogs(r.TxRepos.AuditLogs())
	}
	return r.TxRepos.AuditLogs()
}

type overrideTxManager struct {
	inner      repo.TransactionManager
	orders     func(repo.OrderRepository) repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  func(repo.AuditLogRepository) repo.AuditLogRepository
}

func (m overrideTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(txReposOverride{
			TxRepos:    r,
			orders:     m.orders,
			orderItems: m.orderItems,
			auditLogs:  m.auditLogs,
		})
	})
}

// =====================
// payment.Gateway モック
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) RequestPayment(ctx context.Context, req payment.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *GatewayMock) ConfirmPayment(ctx context.Context, c payment.PaymentConfirmation) error {
	return m.Called(ctx, c).Error(0)
}

var _ payment.Gateway = (*GatewayMock)(nil)
