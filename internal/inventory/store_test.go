package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          "mechanical keyboard",
		Price:         decimal.NewFromFloat(79.99),
		StockQuantity: stock,
		Category:      "peripherals",
		Version:       1,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestAttemptDecrementUpdates(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 10)

	res, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, res.Status)
	assert.Equal(t, int64(2), res.NewVersion)
	assert.Equal(t, 7, res.NewStock)
}

func TestAttemptDecrementVersionConflict(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 10)

	// First writer wins with the fresh version.
	first, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 2)
	require.NoError(t, err)
	require.Equal(t, StatusUpdated, first.Status)

	// Second writer still holds the stale version and must be refused even
	// though stock would cover the quantity.
	second, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusVersionConflict, second.Status)

	var current models.Product
	require.NoError(t, conn.First(&current, product.ID).Error)
	assert.Equal(t, 8, current.StockQuantity)
	assert.Equal(t, int64(2), current.Version)
}

func TestAttemptDecrementInsufficientStock(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 2)

	res, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientStock, res.Status)

	var current models.Product
	require.NoError(t, conn.First(&current, product.ID).Error)
	assert.Equal(t, 2, current.StockQuantity)
	assert.Equal(t, int64(1), current.Version)
}

func TestAttemptDecrementMissingProduct(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)

	res, err := store.AttemptDecrement(context.Background(), 999, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientStock, res.Status)
}

func TestAttemptDecrementExactStock(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 4)

	res, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, res.Status)
	assert.Equal(t, 0, res.NewStock)
}

func TestAttemptDecrementRejectsNonPositiveQuantity(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 4)

	_, err := store.AttemptDecrement(context.Background(), product.ID, product.Version, 0)
	assert.Error(t, err)
}

func TestStaleVersionSequence(t *testing.T) {
	conn := newTestDB(t)
	store := NewStore(conn)
	product := seedProduct(t, conn, 100)

	// Replay the classic lost-update interleaving: both actors read
	// version 1, only the first CAS lands.
	version := product.Version
	winner, err := store.AttemptDecrement(context.Background(), product.ID, version, 10)
	require.NoError(t, err)
	require.Equal(t, StatusUpdated, winner.Status)

	loser, err := store.AttemptDecrement(context.Background(), product.ID, version, 10)
	require.NoError(t, err)
	require.Equal(t, StatusVersionConflict, loser.Status)

	// The loser re-reads and retries with the fresh version.
	retry, err := store.AttemptDecrement(context.Background(), product.ID, winner.NewVersion, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, retry.Status)
	assert.Equal(t, 80, retry.NewStock)
	assert.Equal(t, int64(3), retry.NewVersion)
}
