package service

import (
	"context"
	"testing"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Balance.IsZero())

	_, err = env.svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	_, err = env.svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	byName, err := env.svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := env.svc.Login(ctx, "ALICE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = env.svc.Login(ctx, "alice", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = env.svc.Login(ctx, "nobody", "secret123")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.EnsureAdmin(ctx, "", "", ""))
	require.NoError(t, env.svc.EnsureAdmin(ctx, "root", "root@example.com", "secret123"))
	require.NoError(t, env.svc.EnsureAdmin(ctx, "root", "root@example.com", "secret123"))

	admin, err := env.svc.Login(ctx, "root", "secret123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}
