package database_test

import (
	"fmt"
	"testing"

	"foodorder/internal/database"
	"foodorder/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)

	for _, model := range []interface{}{&models.User{}, &models.MenuItem{}, &models.Order{}, &models.OrderLine{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.NoError(t, database.Ping(db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
