package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AuditLogRepository struct {
	s      *Store
	locked bool
}

func (r *AuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	defer r.s.guard(r.locked)()

	r.s.nextAuditID++
	log.ID = r.s.nextAuditID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.s.now()
	}
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	defer r.s.guard(r.locked)()

	matched := []model.AuditLog{}
	//新しい順
	for i := len(r.s.auditLogs) - 1; i >= 0; i-- {
		l := r.s.auditLogs[i]
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, l)
	}

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []model.AuditLog{}, nil
		}
		matched = matched[f.Offset:]
	}
	limit := repo.NormalizeAuditLimit(f.Limit)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
