package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productsResponse struct {
	Products []model.Product `json:"products"`
	Error    *string         `json:"error"`
}

type productResponse struct {
	Product *model.Product `json:"product"`
	Error   *string        `json:"error"`
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ListProductsInput{
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}

	// limit（省略時は usecase 側で 20）
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, productsResponse{Products: []model.Product{}, Error: strPtr("invalid limit")})
		}
		in.Limit = l
	}

	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, productsResponse{Products: []model.Product{}, Error: strPtr("invalid offset")})
		}
		in.Offset = o
	}

	items, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, productsResponse{Products: []model.Product{}, Error: &msg})
	}

	return c.JSON(http.StatusOK, productsResponse{Products: items})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, productResponse{Error: &msg})
	}

	return c.JSON(http.StatusOK, productResponse{Product: &p})
}
