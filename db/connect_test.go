package db

import (
	"bytes"
	"testing"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnectDb_SQLLoggingSkipsMissingRows(t *testing.T) {
	var out bytes.Buffer
	logger := utils.InitLogger()
	logger.SetOutput(&out)

	database, err := ConnectDb("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger)
	require.NoError(t, err)
	t.Cleanup(func() { Close(database, logger) })
	require.NoError(t, Migrate(database, true, logger))

	out.Reset()
	err = database.First(&models.User{}, "id = ?", "missing").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, out.String())

	var rows []map[string]interface{}
	err = database.Table("no_such_table").Find(&rows).Error
	require.Error(t, err)
	assert.Contains(t, out.String(), "no_such_table")
}
