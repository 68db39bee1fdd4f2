package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_RequestPayment(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)
	req := PaymentRequest{OrderID: "o-1", Amount: 3000, OrderName: "Mouse"}

	t.Run("mock mode", func(t *testing.T) {
		g := NewMockGateway(true, "")
		g.now = func() time.Time { return fixed }

		key, err := g.RequestPayment(context.Background(), req)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^mock_1700000000123_[0-9a-f]{9}$`), key)
	})

	t.Run("keys differ", func(t *testing.T) {
		g := NewMockGateway(true, "")
		a, _ := g.RequestPayment(context.Background(), req)
		b, _ := g.RequestPayment(context.Background(), req)
		assert.NotEqual(t, a, b)
	})

	t.Run("not configured", func(t *testing.T) {
		g := NewMockGateway(false, "")
		_, err := g.RequestPayment(context.Background(), req)
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.ErrorIs(t, g.ConfirmPayment(context.Background(), PaymentConfirmation{PaymentKey: "k"}), ErrNotConfigured)
	})

	t.Run("secret key", func(t *testing.T) {
		g := NewMockGateway(false, "sk_test")
		g.now = func() time.Time { return fixed }

		key, err := g.RequestPayment(context.Background(), req)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^test_1700000000123_`), key)
		assert.NoError(t, g.ConfirmPayment(context.Background(), PaymentConfirmation{PaymentKey: key, OrderID: "o-1", Amount: 3000}))
	})
}
