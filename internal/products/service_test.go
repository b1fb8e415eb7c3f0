package products

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"github.com/suryakv/ecommerce-backend/pkg/redis"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeCacheStore struct {
	data     map[string]string
	getErr   error
	setCalls int
	delCalls int
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{data: map[string]string{}}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.setCalls++
	switch v := value.(type) {
	case string:
		f.data[key] = v
	case []byte:
		f.data[key] = string(v)
	}
	return nil
}

func (f *fakeCacheStore) Del(_ context.Context, keys ...string) error {
	f.delCalls++
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCacheStore) CacheKey(parts ...string) string {
	key := "ecom:cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCatalogService(t *testing.T) (Service, *Repository, *fakeCacheStore) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := NewRepository(conn)
	store := newFakeCacheStore()
	cache := &Cache{store: store, ttl: 5 * time.Minute, logg: testLogger()}
	svc, err := NewService(repo, cache)
	require.NoError(t, err)
	return svc, repo, store
}

func TestListProductsPopulatesCacheOnMiss(t *testing.T) {
	svc, repo, store := newCatalogService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Product{Name: "usb hub", Price: decimal.NewFromInt(25), StockQuantity: 5})
	require.NoError(t, err)

	listed, err := svc.ListProducts(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, store.setCalls)
	assert.Contains(t, store.data, "ecom:cache:products")
}

func TestListProductsServesFromCache(t *testing.T) {
	svc, _, store := newCatalogService(t)
	ctx := context.Background()

	cached := []models.Product{{ID: 42, Name: "cached monitor", Price: decimal.NewFromInt(199), StockQuantity: 3, Version: 1}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	store.data["ecom:cache:products"] = string(payload)

	listed, err := svc.ListProducts(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(42), listed[0].ID)
	assert.Equal(t, "cached monitor", listed[0].Name)
}

func TestListProductsFilteredBypassesCache(t *testing.T) {
	svc, repo, store := newCatalogService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Product{Name: "desk lamp", Price: decimal.NewFromInt(30), StockQuantity: 4, Category: "lighting"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Product{Name: "floor lamp", Price: decimal.NewFromInt(80), StockQuantity: 2, Category: "lighting"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Product{Name: "webcam", Price: decimal.NewFromInt(60), StockQuantity: 9, Category: "peripherals"})
	require.NoError(t, err)

	listed, err := svc.ListProducts(ctx, ListFilters{Category: "lighting", Sort: "price_desc"})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "floor lamp", listed[0].Name)
	assert.Equal(t, 0, store.setCalls)
}

func TestListProductsFallsBackWhenCacheUnavailable(t *testing.T) {
	svc, repo, store := newCatalogService(t)
	ctx := context.Background()
	store.getErr = context.DeadlineExceeded

	_, err := repo.Create(ctx, &models.Product{Name: "headset", Price: decimal.NewFromInt(45), StockQuantity: 7})
	require.NoError(t, err)

	listed, err := svc.ListProducts(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateProductInvalidatesCache(t *testing.T) {
	svc, _, store := newCatalogService(t)
	ctx := context.Background()
	store.data["ecom:cache:products"] = "[]"

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:          "standing desk",
		Price:         decimal.NewFromFloat(399.99),
		StockQuantity: 2,
		Category:      "furniture",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.NotContains(t, store.data, "ecom:cache:products")
	assert.Equal(t, 1, store.delCalls)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _, _ := newCatalogService(t)

	_, err := svc.GetProduct(context.Background(), 777)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateProductRejectsNegativeValues(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "bad", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "bad", Price: decimal.NewFromInt(1), StockQuantity: -2})
	assert.Error(t, err)
}
