package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockGateway は常に成功する。
// mock=false でシークレットキーも無いときだけ ErrNotConfigured を返す。
type MockGateway struct {
	mock      bool
	secretKey string
	now       func() time.Time
}

func NewMockGateway(mock bool, secretKey string) *MockGateway {
	return &MockGateway{mock: mock, secretKey: secretKey, now: time.Now}
}

func (g *MockGateway) RequestPayment(ctx context.Context, req PaymentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.mock {
		return g.newKey("mock"), nil
	}
	if g.secretKey == "" {
		return "", ErrNotConfigured
	}
	return g.newKey("test"), nil
}

func (g *MockGateway) ConfirmPayment(ctx context.Context, c PaymentConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !g.mock && g.secretKey == "" {
		return ErrNotConfigured
	}
	return nil
}

// <prefix>_<unix-ms>_<random>
func (g *MockGateway) newKey(prefix string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, g.now().UnixMilli(), random)
}
