package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentStatus_PaidAlias(t *testing.T) {
	st, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, st)

	_, err = ParsePaymentStatus("SHIPPED")
	assert.Error(t, err)
}

func TestOrderStatus_UnlocksDownload(t *testing.T) {
	assert.True(t, OrderPaid.UnlocksDownload())
	assert.True(t, OrderCompleted.UnlocksDownload())
	assert.False(t, OrderPending.UnlocksDownload())
	assert.False(t, OrderRefunded.UnlocksDownload())
}

func TestBalanceTransactionType_IsDebit(t *testing.T) {
	assert.True(t, BalanceSubtract.IsDebit())
	assert.True(t, BalancePurchase.IsDebit())
	assert.False(t, BalanceTopupApproval.IsDebit())
	assert.False(t, BalanceRefund.IsDebit())
}

func TestPage_Normalize(t *testing.T) {
	p := Page{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = Page{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxPageLimit, p.Limit)
	assert.Equal(t, 200, p.Offset())
}
