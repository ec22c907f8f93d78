package gateway

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
	"github.com/shopspring/decimal"
)

// successRates is the chance a payment of each method completes outright.
var successRates = map[string]float64{
	"CREDIT_CARD":   0.95,
	"DEBIT_CARD":    0.98,
	"BANK_TRANSFER": 0.99,
	"CRYPTO":        0.90,
	"CASH":          1.0,
}

const (
	defaultSuccessRate = 0.95
	failureCeiling     = 0.98
)

// Simulated stands in for an external processor. A roll at or below the
// method's success rate completes, one up to failureCeiling fails and the
// rest stay pending for manual review.
type Simulated struct {
	delay  time.Duration
	logger *utils.Logger

	mu   sync.Mutex
	roll func() float64
}

func NewSimulated(delay time.Duration, logger *utils.Logger) *Simulated {
	return &Simulated{delay: delay, logger: logger, roll: rand.Float64}
}

// WithRoll replaces the random source.
func (g *Simulated) WithRoll(roll func() float64) *Simulated {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roll = roll
	return g
}

func (g *Simulated) Process(ctx context.Context, method string, amount decimal.Decimal) (models.PaymentStatus, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	rate := SuccessRate(method)

	g.mu.Lock()
	r := g.roll()
	g.mu.Unlock()

	var status models.PaymentStatus
	switch {
	case r <= rate:
		status = models.PaymentCompleted
	case r <= failureCeiling:
		status = models.PaymentFailed
	default:
		status = models.PaymentPending
	}

	g.logger.Debugf("Gateway %s payment of %s: roll %.3f, rate %.2f -> %s", method, amount, r, rate, status)
	return status, nil
}

func SuccessRate(method string) float64 {
	if rate, ok := successRates[strings.ToUpper(method)]; ok {
		return rate
	}
	return defaultSuccessRate
}
