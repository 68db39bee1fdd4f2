package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const (
	defaultProductLimit = 20
	maxProductLimit     = 100
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	q := repo.ProductListQuery{
		Sort:   repo.ProductSortCreatedAtDesc,
		Limit:  in.Limit,
		Offset: in.Offset,
	}

	if c := strings.TrimSpace(in.Category); c != "" {
		category := model.ProductCategory(c)
		if !category.Valid() {
			return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		q.Category = &category
	}

	switch s := repo.ProductSort(strings.TrimSpace(in.Sort)); s {
	case "":
	case repo.ProductSortPriceAsc, repo.ProductSortPriceDesc, repo.ProductSortCreatedAtDesc, repo.ProductSortCreatedAtAsc:
		q.Sort = s
	default:
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	if q.Limit == 0 {
		q.Limit = defaultProductLimit
	}
	if q.Limit < 0 || q.Limit > maxProductLimit {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if q.Offset < 0 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	items, err := u.productRepo.ListActive(ctx, q)
	if err != nil {
		return []model.Product{}, errStorage("failed to fetch products")
	}
	return items, nil
}

// 非公開の商品は存在しない扱い
func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if !validID(productID) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, errStorage("failed to fetch product")
	}

	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}
