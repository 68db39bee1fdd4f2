package memory

import (
	"context"

	repo "storefront/internal/repository"
)

type txRepos struct {
	s *Store
}

func (r txRepos) Orders() repo.OrderRepository {
	return &OrderRepository{s: r.s, locked: true}
}

func (r txRepos) OrderItems() repo.OrderItemRepository {
	return &OrderItemRepository{s: r.s, locked: true}
}

func (r txRepos) Products() repo.ProductRepository {
	return &ProductRepository{s: r.s, locked: true}
}

func (r txRepos) AuditLogs() repo.AuditLogRepository {
	return &AuditLogRepository{s: r.s, locked: true}
}

type TxManager struct {
	s *Store
}

// fn の中では txRepos 以外のリポジトリを呼ばないこと（ロック済みのため）
func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.s.mu.Lock()
	defer tm.s.mu.Unlock()

	snap := tm.s.snapshot()
	if err := fn(txRepos{s: tm.s}); err != nil {
		tm.s.restore(snap)
		return err
	}
	return nil
}
