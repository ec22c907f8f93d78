package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DB_URL:             "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate:        true,
		HTTPAddr:           "127.0.0.1:0",
		JWTSecret:          "secret",
		UploadDir:          filepath.Join(dir, "uploads"),
		MaxUploadBytes:     1 << 20,
		CryptoAccountsFile: filepath.Join(dir, "missing.yaml"),
		BTCNetwork:         "mainnet",
		ShutdownTimeout:    time.Second,
	}
}

func quietLogger() *utils.Logger {
	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, testConfig(t), quietLogger()))
}

func TestRun_ReturnsStartupErrors(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.CryptoAccountsFile, []byte("accounts: [oops"), 0o600))

	err := run(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load crypto accounts")

	cfg = testConfig(t)
	cfg.BTCNetwork = "moonnet"
	err = run(context.Background(), cfg, quietLogger())
	assert.Error(t, err)
}
