package product

import (
	"context"

	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedProducts is the default catalog.
func SeedProducts() []models.Product {
	return []models.Product{
		{Code: "MUG", Name: "Reedsy Mug", Price: decimal.RequireFromString("6.00")},
		{
			Code:  "TSHIRT",
			Name:  "Reedsy T-shirt",
			Price: decimal.RequireFromString("15.00"),
			Discounts: []models.ProductDiscount{
				{MinQuantity: 3, Percentage: decimal.RequireFromString("30")},
			},
		},
		{Code: "HOODIE", Name: "Reedsy Hoodie", Price: decimal.RequireFromString("20.00")},
	}
}

// Seed creates each product whose code is not in the catalog yet and
// returns how many were created. Existing products are left untouched.
func Seed(ctx context.Context, client *db.Client, logg *logger.Logger, products []models.Product) (int, error) {
	created := 0
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		for i := range products {
			product := products[i]
			product.Code = models.NormalizeCode(product.Code)

			if _, err := repo.FindByCode(ctx, product.Code); err == nil {
				continue
			} else if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return err
			}

			if err := ValidateProduct(&product); err != nil {
				return err
			}
			if err := repo.Create(ctx, &product); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.FieldErrors{"code": {msgTaken}}.Validation("product is invalid")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
			}
			created++
			if logg != nil {
				logg.Info(logg.WithFields(ctx, map[string]any{"code": product.Code, "product_id": product.ID}), "product.seeded")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
