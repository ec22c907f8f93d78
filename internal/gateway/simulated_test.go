package gateway

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *utils.Logger {
	l := utils.InitLogger()
	l.SetOutput(io.Discard)
	return l
}

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func TestSimulated_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		roll   float64
		want   models.PaymentStatus
	}{
		{"credit card within rate", "CREDIT_CARD", 0.95, models.PaymentCompleted},
		{"credit card above rate", "CREDIT_CARD", 0.96, models.PaymentFailed},
		{"bank transfer above failure ceiling", "BANK_TRANSFER", 0.985, models.PaymentFailed},
		{"crypto pending band", "CRYPTO", 0.99, models.PaymentPending},
		{"cash always completes", "CASH", 1.0, models.PaymentCompleted},
		{"unknown method uses default", "VOUCHER", 0.951, models.PaymentFailed},
		{"lowercase method", "debit_card", 0.97, models.PaymentCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSimulated(0, quietLogger()).WithRoll(fixed(tt.roll))
			got, err := g.Process(context.Background(), tt.method, decimal.NewFromInt(10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimulated_DelayHonoursContext(t *testing.T) {
	g := NewSimulated(time.Hour, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Process(ctx, "CASH", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0.99, SuccessRate("BANK_TRANSFER"))
	assert.Equal(t, defaultSuccessRate, SuccessRate(""))
}
