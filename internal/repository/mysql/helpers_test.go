package mysql

import (
	"context"
	"path/filepath"
	"testing"

	"storefront-service/internal/domain"
	infradb "storefront-service/internal/infra/mysql"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, infradb.Migrate(db))
	return db
}

type fixture struct {
	db       *gorm.DB
	orders   *orderRepo
	products *productRepo
	cats     *categoryRepo
	category *domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		orders:   NewOrderRepository(db, zap.NewNop()).(*orderRepo),
		products: NewProductRepository(db).(*productRepo),
		cats:     NewCategoryRepository(db).(*categoryRepo),
	}

	f.category = &domain.Category{Name: "Pain Relief", Slug: "pain-relief"}
	require.NoError(t, f.cats.Create(context.Background(), f.category))
	return f
}

func (f *fixture) product(t *testing.T, name, slug, price string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		CategoryID: f.category.ID,
		Name:       name,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
