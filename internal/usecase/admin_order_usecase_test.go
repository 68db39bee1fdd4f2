package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/events"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminOrderUsecase_List(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mouse", 10000, 10)

	a := env.placeOrder(t, "user-1", line{p, 1})
	require.NoError(t, env.orders.ConfirmOrder(asUser("user-1"), a, "k"))
	b := env.placeOrder(t, "user-2", line{p, 2})
	c := env.placeOrder(t, "user-2", line{p, 1})

	t.Run("all", func(t *testing.T) {
		got, err := env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Total)
		require.Len(t, got.Orders, 3)
		assert.Equal(t, c, got.Orders[0].ID)
		assert.Equal(t, a, got.Orders[2].ID)
		assert.NotEmpty(t, got.Orders[0].Items)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 50, Status: "confirmed"})
		require.NoError(t, err)
		require.Len(t, got.Orders, 1)
		assert.Equal(t, a, got.Orders[0].ID)
	})

	t.Run("user filter and paging", func(t *testing.T) {
		got, err := env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 2, Limit: 1, UserID: "user-2"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Total)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 1, got.Limit)
		require.Len(t, got.Orders, 1)
		assert.Equal(t, b, got.Orders[0].ID)
	})

	t.Run("date range excludes", func(t *testing.T) {
		from := testNow.Add(time.Hour)
		got, err := env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 50, From: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Total)
		assert.Empty(t, got.Orders)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 50})
		requireHTTPError(t, err, http.StatusBadRequest)
		_, err = env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 101})
		requireHTTPError(t, err, http.StatusBadRequest)
		_, err = env.admin.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 10, Status: "lost"})
		requireHTTPError(t, err, http.StatusBadRequest)
	})
}

func TestAdminOrderUsecase_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mouse", 10000, 10)
	ctx := context.Background()

	orderID := env.placeOrder(t, "user-1", line{p, 1})

	requireHTTPError(t, env.admin.UpdateStatus(ctx, "", orderID, "confirmed"), http.StatusUnauthorized)
	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", "bad-id", "confirmed"), http.StatusBadRequest)
	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "lost"), http.StatusBadRequest)
	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "shipped"), http.StatusConflict)

	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "Confirmed"))
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "shipped"))
	//同じステータスは何もしない
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "shipped"))
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "delivered"))
	assert.Equal(t, model.OrderStatusDelivered, env.orderStatus(t, orderID))

	//終端からは動かない
	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "cancelled"), http.StatusConflict)
	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "pending"), http.StatusConflict)

	logs, err := env.store.AuditLogs().List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, orderID, logs[0].ResourceID)
	assert.Equal(t, "admin-1", logs[0].ActorUserID)
	assert.JSONEq(t, `{"status":"shipped"}`, logs[0].BeforeJSON)
	assert.JSONEq(t, `{"status":"delivered"}`, logs[0].AfterJSON)

	assert.Equal(t, []string{
		events.OrderCreated,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
	}, env.pub.types())
}

func TestAdminOrderUsecase_UpdateStatus_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	err := env.admin.UpdateStatus(context.Background(), "admin-1", "0b0d7c4e-8a57-4a3f-9a51-0e0f5d6c1a2b", "confirmed")
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestAdminOrderUsecase_UpdateStatus_AuditFailureRollsBack(t *testing.T) {
	failing := true
	audit := &AuditLogRepoMock{}
	audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit down"))

	env := newTestEnv(t, wrapTx(func(inner repo.TransactionManager) repo.TransactionManager {
		return overrideTxManager{
			inner: inner,
			auditLogs: func(inTx repo.AuditLogRepository) repo.AuditLogRepository {
				if failing {
					return audit
				}
				return inTx
			},
		}
	}))
	p := env.seedProduct(t, "Mouse", 10000, 10)
	ctx := context.Background()
	orderID := env.placeOrder(t, "user-1", line{p, 1})

	requireHTTPError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "confirmed"), http.StatusInternalServerError)
	audit.AssertNumberOfCalls(t, "Create", 1)

	//監査ログが書けなければステータスも戻る
	assert.Equal(t, model.OrderStatusPending, env.orderStatus(t, orderID))
	logs, err := env.store.AuditLogs().List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Equal(t, []string{events.OrderCreated}, env.pub.types())

	//復旧後のリトライで更新と監査ログが両方残る
	failing = false
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", orderID, "confirmed"))
	assert.Equal(t, model.OrderStatusConfirmed, env.orderStatus(t, orderID))

	logs, err = env.store.AuditLogs().List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"status":"pending"}`, logs[0].BeforeJSON)
	assert.Equal(t, []string{events.OrderCreated, events.OrderStatusChanged}, env.pub.types())
}

func TestAdminOrderUsecase_ListAuditLogs(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mouse", 10000, 10)
	ctx := context.Background()

	a := env.placeOrder(t, "user-1", line{p, 1})
	b := env.placeOrder(t, "user-2", line{p, 1})
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", a, "confirmed"))
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-2", b, "cancelled"))
	require.NoError(t, env.admin.UpdateStatus(ctx, "admin-1", a, "shipped"))

	t.Run("all newest first", func(t *testing.T) {
		got, err := env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{})
		require.NoError(t, err)
		assert.Equal(t, 50, got.Limit)
		require.Len(t, got.AuditLogs, 3)
		assert.JSONEq(t, `{"status":"shipped"}`, got.AuditLogs[0].AfterJSON)
		assert.Equal(t, b, got.AuditLogs[1].ResourceID)
	})

	t.Run("filters", func(t *testing.T) {
		actor := "admin-1"
		got, err := env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{ActorUserID: &actor})
		require.NoError(t, err)
		require.Len(t, got.AuditLogs, 2)

		got, err = env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{ResourceID: &b})
		require.NoError(t, err)
		require.Len(t, got.AuditLogs, 1)
		assert.Equal(t, "admin-2", got.AuditLogs[0].ActorUserID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Limit)
		assert.Equal(t, 1, got.Offset)
		require.Len(t, got.AuditLogs, 1)
		assert.Equal(t, b, got.AuditLogs[0].ResourceID)

		//範囲外は50件に丸める
		got, err = env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{Limit: 500})
		require.NoError(t, err)
		assert.Equal(t, 50, got.Limit)

		got, err = env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{Offset: 10})
		require.NoError(t, err)
		assert.NotNil(t, got.AuditLogs)
		assert.Empty(t, got.AuditLogs)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{Offset: -1})
		requireHTTPError(t, err, http.StatusBadRequest)

		from := testNow.Add(time.Hour)
		to := testNow
		_, err = env.admin.ListAuditLogs(ctx, repo.AuditLogFilter{CreatedFrom: &from, CreatedTo: &to})
		requireHTTPError(t, err, http.StatusBadRequest)
	})
}

func TestAdminOrderUsecase_ListAuditLogs_StorageError(t *testing.T) {
	audit := &AuditLogRepoMock{}
	audit.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool { return f.Limit == 50 })).
		Return(nil, errors.New("db down"))

	admin := usecase.NewAdminOrderUsecase(nil, audit, &recordingPublisher{}, fixedClock{t: testNow}, zap.NewNop())
	_, err := admin.ListAuditLogs(context.Background(), repo.AuditLogFilter{})
	requireHTTPError(t, err, http.StatusInternalServerError)
	audit.AssertExpectations(t)
}

func TestParseDateTimeRFC3339(t *testing.T) {
	got, err := usecase.ParseDateTimeRFC3339("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = usecase.ParseDateTimeRFC3339("2025-03-01T09:00:00+09:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	_, err = usecase.ParseDateTimeRFC3339("yesterday")
	requireHTTPError(t, err, http.StatusBadRequest)
}
