package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を作成日時の昇順で取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) SumQuantityByUserID(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CartItemGormRepository) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error) {
	return findOne[model.CartItem](r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID))
}

// 所有者で絞って取得（他人のものは存在しない扱い）
func (r *CartItemGormRepository) FindOwned(ctx context.Context, cartItemID string, userID string) (model.CartItem, error) {
	return findOne[model.CartItem](r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID))
}

func (r *CartItemGormRepository) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if isUniqueViolation(err) {
			return model.CartItem{}, repo.ErrConflict
		}
		return model.CartItem{}, err
	}
	return item, nil
}

// 読んだ時点の数量のままなら更新する（ロストアップデート防止）
func (r *CartItemGormRepository) CompareAndSetQuantity(ctx context.Context, cartItemID string, expected int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND quantity = ?", cartItemID, expected).
		Update("quantity", qty)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// 明細の数量を上書き
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty))
}

func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		Delete(&model.CartItem{}))
}

// ユーザーの明細を全削除
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
