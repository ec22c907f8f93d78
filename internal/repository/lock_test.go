package repository

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/Fi44er/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// dryRunPostgres builds SQL for the postgres dialect without a server and
// records every query statement it renders.
func dryRunPostgres(t *testing.T) (*gorm.DB, func() []string) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=shop dbname=shop sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormLogger.Discard,
	})
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		sqls []string
	)
	err = db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(d *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		sqls = append(sqls, d.Statement.SQL.String())
	})
	require.NoError(t, err)

	return db, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), sqls...)
	}
}

func TestLockQueries_UseSelectForUpdate(t *testing.T) {
	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	tests := []struct {
		name  string
		table string
		lock  func(r *Repository, tx *gorm.DB) error
	}{
		{"user", `"users"`, func(r *Repository, tx *gorm.DB) error {
			_, err := r.LockUser(ctx, "u1", tx)
			return err
		}},
		{"topup", `"topup_requests"`, func(r *Repository, tx *gorm.DB) error {
			_, err := r.LockTopup(ctx, "t1", tx)
			return err
		}},
		{"payment", `"payments"`, func(r *Repository, tx *gorm.DB) error {
			_, err := r.LockPayment(ctx, "p1", tx)
			return err
		}},
		{"order", `"orders"`, func(r *Repository, tx *gorm.DB) error {
			_, err := r.LockOrder(ctx, "o1", tx)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, captured := dryRunPostgres(t)
			repo := NewRepository(db, logger)

			require.NoError(t, tt.lock(repo, db))

			sqls := captured()
			require.Len(t, sqls, 1)
			assert.Contains(t, sqls[0], "FROM "+tt.table)
			assert.Contains(t, sqls[0], "FOR UPDATE")
		})
	}
}

func TestReadQueries_DoNotLock(t *testing.T) {
	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)

	db, captured := dryRunPostgres(t)
	repo := NewRepository(db, logger)

	_, err := repo.GetPaymentByOrderID(context.Background(), "o1", db)
	require.NoError(t, err)

	sqls := captured()
	require.NotEmpty(t, sqls)
	assert.NotContains(t, sqls[0], "FOR UPDATE")
}
