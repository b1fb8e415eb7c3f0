package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestCreateCascadesItems(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		UserEmail: "shopper@example.com",
		Total:     decimal.NewFromFloat(109.97),
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2, Price: decimal.NewFromFloat(24.99)},
			{ProductID: 2, Quantity: 1, Price: decimal.NewFromFloat(59.99)},
		},
	}

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	for _, item := range loaded.Items {
		assert.Equal(t, created.ID, item.OrderID)
	}
	assert.True(t, loaded.Total.Equal(decimal.NewFromFloat(109.97)))
}

func TestListForUserNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &models.Order{
			UserEmail: "shopper@example.com",
			Total:     decimal.NewFromInt(int64(10 * (i + 1))),
			Items:     []models.OrderItem{{ProductID: int64(i + 1), Quantity: 1, Price: decimal.NewFromInt(int64(10 * (i + 1)))}},
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Order{UserEmail: "other@example.com", Total: decimal.NewFromInt(5)})
	require.NoError(t, err)

	rows, err := repo.ListForUser(ctx, "shopper@example.com")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Greater(t, rows[0].ID, rows[1].ID)
	assert.Greater(t, rows[1].ID, rows[2].ID)
	for _, row := range rows {
		assert.Equal(t, "shopper@example.com", row.UserEmail)
	}
}
