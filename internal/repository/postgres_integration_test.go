//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/foodkart-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	_ = db.Migrator().DropTable(&models.OrderItem{}, &models.Order{}, &models.Cart{})
	if err := db.AutoMigrate(&models.Cart{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate postgres failed: %v", err)
	}
	return db
}

func TestPostgresCartUpsert(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, "user:1", models.CartLines{{ItemID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := repo.Save(ctx, "user:1", models.CartLines{{ItemID: 1, Quantity: 4}}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	cart, err := repo.Get(ctx, "user:1")
	if err != nil || cart == nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 4 {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
}

func TestPostgresOrderCreate(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &models.Order{OrderNo: "100001", IdentityKey: "user:1", UserID: 1, Status: "confirmed",
		Items: []models.OrderItem{{ItemID: 1, Name: "Burrito", Quantity: 1}}}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	loaded, err := repo.GetByOrderNo(ctx, "100001")
	if err != nil || loaded == nil || len(loaded.Items) != 1 {
		t.Fatalf("load order failed: %v %+v", err, loaded)
	}
}
