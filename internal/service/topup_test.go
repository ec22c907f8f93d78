package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveTopup_CreditsBalanceWithHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.user(t, "alice")
	account := env.account(t, "USDT", true)

	first, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("100"), CryptoAccountID: account.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TopupPending, first.Status)
	require.NotNil(t, first.CryptoAccount)
	assert.Equal(t, "USDT", first.CryptoAccount.Symbol)

	second, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("50"), CryptoAccountID: account.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveTopupRequest(ctx, first.ID, admin.UserID, nil)
	require.NoError(t, err)

	notes := "checked on chain"
	approved, err := env.svc.ApproveTopupRequest(ctx, second.ID, admin.UserID, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.TopupApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	assert.Equal(t, admin.UserID, *approved.ProcessedBy)
	assert.NotNil(t, approved.ProcessedAt)
	require.NotNil(t, approved.AdminNotes)
	assert.Equal(t, notes, *approved.AdminNotes)

	balance, err := env.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("150")), balance.String())

	history, total, _, err := env.svc.GetBalanceHistory(ctx, user.ID, models.Page{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	var latest models.BalanceHistory
	for _, h := range history {
		if h.ReferenceID != nil && *h.ReferenceID == second.ID {
			latest = h
		}
	}
	assert.Equal(t, models.BalanceTopupApproval, latest.Type)
	assert.True(t, latest.Amount.Equal(dec("50")))
	assert.True(t, latest.PreviousBalance.Equal(dec("100")))
	assert.True(t, latest.NewBalance.Equal(dec("150")))
	require.NotNil(t, latest.ReferenceType)
	assert.Equal(t, models.ReferenceTopup, *latest.ReferenceType)

	assert.Len(t, env.notifier.created, 2)
	assert.Len(t, env.notifier.processed, 2)
}

func TestApproveTopup_SecondApprovalIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.user(t, "bob")
	account := env.account(t, "USDT", true)

	topup, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("100"), CryptoAccountID: account.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveTopupRequest(ctx, topup.ID, admin.UserID, nil)
	require.NoError(t, err)

	_, err = env.svc.ApproveTopupRequest(ctx, topup.ID, admin.UserID, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidState))

	_, err = env.svc.RejectTopupRequest(ctx, topup.ID, admin.UserID, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidState))

	_, total, _, err := env.svc.GetBalanceHistory(ctx, user.ID, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	balance, err := env.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))
}

func TestApproveTopup_ConcurrentApprovalsChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.user(t, "carol")
	account := env.account(t, "USDT", true)

	var ids []string
	for i := 0; i < 2; i++ {
		topup, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("100"), CryptoAccountID: account.ID})
		require.NoError(t, err)
		ids = append(ids, topup.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.svc.ApproveTopupRequest(ctx, id, admin.UserID, nil)
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	balance, err := env.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("200")), balance.String())

	history, _, _, err := env.svc.GetBalanceHistory(ctx, user.ID, models.Page{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	sort.Slice(history, func(i, j int) bool {
		return history[i].PreviousBalance.LessThan(history[j].PreviousBalance)
	})
	assert.True(t, history[0].PreviousBalance.Equal(dec("0")))
	assert.True(t, history[0].NewBalance.Equal(dec("100")))
	assert.True(t, history[1].PreviousBalance.Equal(dec("100")))
	assert.True(t, history[1].NewBalance.Equal(dec("200")))
}

func TestRejectTopup_DoesNotCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.user(t, "dave")
	account := env.account(t, "USDT", true)

	topup, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("75"), CryptoAccountID: account.ID})
	require.NoError(t, err)

	rejected, err := env.svc.RejectTopupRequest(ctx, topup.ID, admin.UserID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TopupRejected, rejected.Status)

	balance, err := env.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	stats, err := env.svc.GetTopupStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.RejectedRequests)
}

func TestCreateTopup_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "erin")
	inactive := env.account(t, "ETH", false)

	_, err := env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("0"), CryptoAccountID: inactive.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("10"), CryptoAccountID: "missing"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = env.svc.CreateTopupRequest(ctx, user.ID, CreateTopupInput{Amount: dec("10"), CryptoAccountID: inactive.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidState))
}

func TestListTopups_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	account := env.account(t, "USDT", true)

	a, err := env.svc.CreateTopupRequest(ctx, alice.ID, CreateTopupInput{Amount: dec("10"), CryptoAccountID: account.ID})
	require.NoError(t, err)
	_, err = env.svc.CreateTopupRequest(ctx, bob.ID, CreateTopupInput{Amount: dec("20"), CryptoAccountID: account.ID})
	require.NoError(t, err)
	_, err = env.svc.ApproveTopupRequest(ctx, a.ID, admin.UserID, nil)
	require.NoError(t, err)

	items, total, _, err := env.svc.ListTopupRequests(ctx, models.TopupFilter{Search: "ALI"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].UserID)

	_, total, _, err = env.svc.ListTopupRequests(ctx, models.TopupFilter{Status: models.TopupPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	mine, total, page, err := env.svc.ListUserTopupRequests(ctx, bob.ID, models.Page{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, mine, 1)
	assert.Equal(t, models.MaxPageLimit, page.Limit)

	require.NoError(t, env.svc.DeleteTopupRequest(ctx, mine[0].ID))
	assert.True(t, apperrors.Is(env.svc.DeleteTopupRequest(ctx, mine[0].ID), apperrors.CodeNotFound))
}
