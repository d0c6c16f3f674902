package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestProductsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "create_products_table")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"code VARCHAR(20) NOT NULL",
		"name VARCHAR(100) NOT NULL",
		"price NUMERIC(10,2) NOT NULL",
		"CHECK (price > 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_code",
		"DROP TABLE IF EXISTS products",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductDiscountsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "create_product_discounts_table")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_discounts",
		"REFERENCES products(id) ON DELETE CASCADE",
		"min_quantity INTEGER NOT NULL",
		"percentage NUMERIC(5,2) NOT NULL",
		"CHECK (percentage > 0 AND percentage <= 100)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_discounts_product_min_quantity",
		"DROP TABLE IF EXISTS product_discounts",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("expected shipped migrations to validate: %v", err)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}

	empty := t.TempDir()
	if err := migrate.ValidateDir(empty); err == nil {
		t.Fatal("expected empty dir to fail validation")
	}

	unbalanced := t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n"
	if err := os.WriteFile(filepath.Join(unbalanced, "20250101000000_broken.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(unbalanced); err == nil {
		t.Fatal("expected unbalanced statement markers to fail validation")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC)

	path, err := migrate.CreateSQLMigration(dir, "Add Product Notes!", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20250120093000_add_product_notes.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "add product notes", now); err == nil {
		t.Fatal("expected duplicate migration to fail")
	}
}

func TestAutoMigrateCreatesCatalogTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:automigrate?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	client := db.NewFromGorm(conn)

	if err := migrate.AutoMigrate(client); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	for _, table := range []string{"products", "product_discounts"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}
