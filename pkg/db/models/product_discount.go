package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDiscount is a volume tier: ordering at least MinQuantity units takes
// Percentage off the line total.
type ProductDiscount struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64           `gorm:"column:product_id;not null;uniqueIndex:idx_product_discounts_product_min_quantity,priority:1"`
	MinQuantity int64           `gorm:"column:min_quantity;not null;uniqueIndex:idx_product_discounts_product_min_quantity,priority:2"`
	Percentage  decimal.Decimal `gorm:"column:percentage;type:numeric(5,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
