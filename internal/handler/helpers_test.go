package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/identity"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/payment"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type clock struct{}

func (clock) Now() time.Time { return time.Now() }

// memoryストアで組んだAPI一式
type api struct {
	e     *echo.Echo
	store *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := memory.NewStore()
	log := zap.NewNop()
	auth := identity.ContextProvider{}

	cartUC := usecase.NewCartUsecase(auth, store.CartItems(), store.Products(), uuidGen{}, log)
	orderUC := usecase.NewOrderUsecase(usecase.OrderDeps{
		Auth:       auth,
		Tx:         store.TxManager(),
		Orders:     store.Orders(),
		OrderItems: store.OrderItems(),
		CartItems:  store.CartItems(),
		Validator:  validator.NewCheckoutValidator(),
		Publisher:  events.NopPublisher{},
		IDs:        uuidGen{},
		Clock:      clock{},
		Log:        log,
	})
	paymentUC := usecase.NewPaymentUsecase(auth, store.Orders(), store.OrderItems(), payment.NewMockGateway(true, ""), orderUC, log)
	adminUC := usecase.NewAdminOrderUsecase(store.TxManager(), store.AuditLogs(), events.NopPublisher{}, clock{}, log)

	cfg := config.Config{JWTSecret: testSecret, FEURL: "http://localhost:3000"}
	e := server.New(cfg, log, nil, server.Handlers{
		Health:     handler.NewHealthHandler(nil),
		Product:    handler.NewProductHandler(usecase.NewProductUsecase(store.Products())),
		Cart:       handler.NewCartHandler(cartUC, log),
		Order:      handler.NewOrderHandler(orderUC, cartUC),
		Payment:    handler.NewPaymentHandler(paymentUC),
		AdminOrder: handler.NewAdminOrderHandler(adminUC),
	})

	return &api{e: e, store: store}
}

func (a *api) seedProduct(t *testing.T, name string, price int64, stock int64) model.Product {
	t.Helper()
	p, err := a.store.Products().Create(context.Background(), model.Product{
		ID:            uuid.NewString(),
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	})
	require.NoError(t, err)
	return p
}

func signToken(t *testing.T, sub string, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// リクエストを送ってステータスを確認し、bodyをoutへデコードする
func (a *api) do(t *testing.T, method string, path string, token string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	require.Equal(t, wantStatus, rec.Code, rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
}

type resultDTO struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

type cartDTO struct {
	Items []struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
		Product   struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
		} `json:"product"`
	} `json:"items"`
	Summary struct {
		TotalItems int64 `json:"total_items"`
		TotalPrice int64 `json:"total_price"`
	} `json:"summary"`
	Error *string `json:"error"`
}

type orderDTO struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	Items       []struct {
		ProductName string `json:"product_name"`
		Price       int64  `json:"price"`
		Quantity    int64  `json:"quantity"`
	} `json:"items"`
}

func shippingBody() map[string]any {
	return map[string]any{
		"shipping_address": map[string]string{
			"name":        "Kim Minsu",
			"phone":       "010-1234-5678",
			"address":     "Seoul, Gangnam-gu 123",
			"postal_code": "06236",
		},
	}
}
