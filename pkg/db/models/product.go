package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductCodeMaxLength = 20
	ProductNameMaxLength = 100
)

// Product is a catalog entry priced per unit.
type Product struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string            `gorm:"column:code;type:varchar(20);not null;uniqueIndex:idx_products_code"`
	Name      string            `gorm:"column:name;type:varchar(100);not null"`
	Price     decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Discounts []ProductDiscount `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// NormalizeCode trims and uppercases a product code so comparisons and the
// unique index are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
