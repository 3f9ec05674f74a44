package repositories_test

import (
	"fmt"
	"testing"

	"foodorder/internal/database"
	"foodorder/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB returns a private in-memory sqlite database with the schema applied.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newOrder(ownerID uint, lines ...models.OrderLine) *models.Order {
	return &models.Order{OwnerID: ownerID, Items: lines}
}
