package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateAll(db))
	return db
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSeedDB(t)
	promos := repository.NewPromoRepository(db)

	first, err := Run(ctx, db, promos)
	require.NoError(t, err)
	assert.Equal(t, Result{RestaurantsCreated: 6, MenuItemsCreated: 18, PromosCreated: 1}, first)

	second, err := Run(ctx, db, promos)
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	var restaurants, items int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&restaurants).Error)
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&items).Error)
	assert.EqualValues(t, 6, restaurants)
	assert.EqualValues(t, 18, items)

	promo, err := promos.GetByCode(ctx, LaunchPromoCode)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "0.5", promo.Value.String())
	assert.Equal(t, "13.00", promo.MaxDiscount.String())
	assert.Equal(t, "13.13 Mega Sale 50% Off", promo.Description)
}

func TestRunFillsMissingMenuItems(t *testing.T) {
	ctx := context.Background()
	db := openSeedDB(t)
	promos := repository.NewPromoRepository(db)
	_, err := Run(ctx, db, promos)
	require.NoError(t, err)

	require.NoError(t, db.Where("name = ?", "Whopper").Delete(&models.MenuItem{}).Error)
	result, err := Run(ctx, db, promos)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MenuItemsCreated)

	var whopper models.MenuItem
	require.NoError(t, db.Where("name = ?", "Whopper").First(&whopper).Error)
	assert.Equal(t, "5.99", whopper.Price.String())
}

func TestRunRequiresDependencies(t *testing.T) {
	_, err := Run(context.Background(), nil, nil)
	assert.Error(t, err)
}
