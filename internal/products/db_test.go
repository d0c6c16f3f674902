package product

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/migrate"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	client := db.NewFromGorm(conn)
	if err := migrate.AutoMigrate(client); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mustCreateProduct(t *testing.T, client *db.Client, code, price string, tiers ...models.ProductDiscount) *models.Product {
	t.Helper()
	product := &models.Product{
		Code:      code,
		Name:      "Test " + code,
		Price:     decimal.RequireFromString(price),
		Discounts: tiers,
	}
	if err := NewRepository(client.DB()).Create(context.Background(), product); err != nil {
		t.Fatalf("create product %s: %v", code, err)
	}
	return product
}

func discount(minQty int64, pct string) models.ProductDiscount {
	return models.ProductDiscount{MinQuantity: minQty, Percentage: decimal.RequireFromString(pct)}
}
