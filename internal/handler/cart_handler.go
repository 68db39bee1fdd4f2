package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /cartのHTTP
type CartHandler struct {
	uc  *usecase.CartUsecase
	log *zap.Logger
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, log *zap.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

type AddCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type cartResponse struct {
	usecase.CartView
	Error *string `json:"error"`
}

type cartCountResponse struct {
	Count int64 `json:"count"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	//バッジ用。未ログインでも 0 を返す
	e.GET("/cart/count", h.count, middleware.OptionalAuthJWT(jwtSecret))

	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(jwtSecret))

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.DELETE("", h.clear)
	g.PATCH("/:id", h.patchItem)
	g.DELETE("/:id", h.deleteItem)
}

// 失敗しても 0 を返す（ログだけ残す）
func (h *CartHandler) count(c echo.Context) error {
	n, err := h.uc.GetCartItemCount(c.Request().Context())
	if err != nil {
		h.log.Warn("cart count failed", zap.Error(err))
		n = 0
	}
	return c.JSON(http.StatusOK, cartCountResponse{Count: n})
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCartItems(c.Request().Context())
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, cartResponse{CartView: usecase.CartView{Items: []model.CartItemWithProduct{}}, Error: &msg})
	}

	return c.JSON(http.StatusOK, cartResponse{CartView: out})
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.uc.AddToCart(c.Request().Context(), req.ProductID, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}

func (h *CartHandler) patchItem(c echo.Context) error {
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.uc.UpdateCartItem(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	if err := h.uc.RemoveCartItem(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}

func (h *CartHandler) clear(c echo.Context) error {
	if err := h.uc.ClearCart(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}
