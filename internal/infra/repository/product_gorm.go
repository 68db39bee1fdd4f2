package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、カテゴリ/ソート/ページング付きで返す。
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)

	if q.Category != nil {
		tx = tx.Where("category = ?", *q.Category)
	}

	//sort
	switch q.Sort {
	case repo.ProductSortPriceAsc:
		tx = tx.Order("price asc").Order("id asc")
	case repo.ProductSortPriceDesc:
		tx = tx.Order("price desc").Order("id desc")
	case repo.ProductSortCreatedAtAsc:
		tx = tx.Order("created_at asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	return findOne[model.Product](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Product{}, repo.ErrConflict
		}
		return model.Product{}, err
	}
	return p, nil
}
