package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/events"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	publisher events.Publisher
	clock     Clock
	log       *zap.Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	publisher events.Publisher,
	clock Clock,
	log *zap.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:        tx,
		auditRepo: auditRepo,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

type AdminOrderList struct {
	Orders []OrderDetail `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// 注文一覧（明細つき）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderList, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	out := AdminOrderList{Page: f.Page, Limit: f.Limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return errStorage("failed to fetch orders")
		}

		out.Total = total
		out.Orders = make([]OrderDetail, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errStorage("failed to fetch order items")
			}
			out.Orders = append(out.Orders, OrderDetail{Order: o, Items: items})
		}
		return nil
	})
	if err != nil {
		return AdminOrderList{}, err
	}
	return out, nil
}

// ステータス更新。遷移表で許されるものだけ。在庫は戻さない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID string, orderID string, status string) error {
	if actorAdminUserID == "" {
		return errUnauthorized()
	}
	if !validID(orderID) {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var (
		o       model.Order
		changed bool
		now     = u.clock.Now()
	)

	//注文の更新と監査ログは同じTxで。監査ログが書けなければ更新も戻す
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		o, err = r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return errStorage("failed to fetch order")
		}

		// すでに同じなら何もしない
		if o.Status == next {
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("cannot change order from %s to %s", o.Status, next))
		}

		swapped, err := r.Orders().TransitionStatus(ctx, o.ID, o.Status, next)
		if err != nil {
			return errStorage("failed to update order")
		}
		if !swapped {
			return NewHTTPError(http.StatusConflict, "order status has changed, please reload")
		}

		before := o.Status
		o.Status = next

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   `{"status":"` + string(before) + `"}`,
			AfterJSON:    `{"status":"` + string(next) + `"}`,
			CreatedAt:    now,
		}); err != nil {
			u.log.Error("write audit log failed", zap.String("order_id", o.ID), zap.Error(err))
			return errStorage("failed to write audit log")
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	//コミット後に通知
	if changed {
		publishOrderEvent(ctx, u.publisher, u.log, events.OrderStatusChanged, o, now)
	}
	return nil
}

type AuditLogList struct {
	AuditLogs []model.AuditLog `json:"audit_logs"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}

// 監査ログ一覧（新しい順）。limitは丸める
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) (AuditLogList, error) {
	if f.Offset < 0 {
		return AuditLogList{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return AuditLogList{}, NewHTTPError(http.StatusBadRequest, "invalid date range")
	}
	f.Limit = repo.NormalizeAuditLimit(f.Limit)

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return AuditLogList{}, errStorage("failed to fetch audit logs")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return AuditLogList{AuditLogs: logs, Limit: f.Limit, Offset: f.Offset}, nil
}

// 期間パラメータ（RFC3339）。空なら nil
func ParseDateTimeRFC3339(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid datetime")
	}
	return &t, nil
}
