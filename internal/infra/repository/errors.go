package repository

import (
	"errors"

	repo "storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// 「ちょうど1件」を取る。0件でも2件以上でも ErrNotFound
func findOne[T any](q *gorm.DB) (T, error) {
	var zero T
	var rows []T
	if err := q.Limit(2).Find(&rows).Error; err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, repo.ErrNotFound
	}
	return rows[0], nil
}

func affectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
