package service

import (
	"context"
	"testing"

	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func TestCryptoAccounts_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	btc, err := env.svc.CreateCryptoAccount(ctx, CryptoAccountInput{
		Name: "Bitcoin", Symbol: "btc", Address: genesisAddress, Network: "Bitcoin", IsActive: true, Order: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "BTC", btc.Symbol)

	_, err = env.svc.CreateCryptoAccount(ctx, CryptoAccountInput{Name: "Bitcoin again", Symbol: "BTC", Address: genesisAddress})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	_, err = env.svc.CreateCryptoAccount(ctx, CryptoAccountInput{Name: "Broken", Symbol: "BTC2", Address: ""})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = env.svc.CreateCryptoAccount(ctx, CryptoAccountInput{Name: "Bad BTC", Symbol: "BTC", Address: "not-an-address"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	env.account(t, "USDT", true)
	eth := env.account(t, "ETH", false)

	all, err := env.svc.ListCryptoAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := env.svc.ListActiveCryptoAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, "BTC", active[len(active)-1].Symbol, "ordered by display order")

	enabled := true
	updated, err := env.svc.UpdateCryptoAccount(ctx, eth.ID, CryptoAccountPatch{IsActive: &enabled})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	taken := "btc"
	_, err = env.svc.UpdateCryptoAccount(ctx, eth.ID, CryptoAccountPatch{Symbol: &taken})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	require.NoError(t, env.svc.DeleteCryptoAccount(ctx, eth.ID))
	_, err = env.svc.GetCryptoAccount(ctx, eth.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSeedCryptoAccounts_SkipsExistingAndInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seeds := []CryptoAccountInput{
		{Name: "Bitcoin", Symbol: "BTC", Address: genesisAddress, IsActive: true},
		{Name: "Broken", Symbol: "BTC-TEST", Address: ""},
	}
	require.NoError(t, env.svc.SeedCryptoAccounts(ctx, seeds))
	require.NoError(t, env.svc.SeedCryptoAccounts(ctx, seeds))

	all, err := env.svc.ListCryptoAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "BTC", all[0].Symbol)
}
