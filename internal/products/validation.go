package product

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	msgBlank           = "can't be blank"
	msgTaken           = "has already been taken"
	msgNotANumber      = "is not a number"
	msgGreaterThanZero = "must be greater than 0"
	msgAtMostHundred   = "must be less than or equal to 100"
)

var hundred = decimal.NewFromInt(100)

func tooLong(max int) string {
	return fmt.Sprintf("is too long (maximum is %d characters)", max)
}

// ValidateProduct checks the product and its loaded discounts, returning a
// VALIDATION_ERROR with every failing field or nil.
func ValidateProduct(p *models.Product) error {
	var errs error

	switch code := strings.TrimSpace(p.Code); {
	case code == "":
		errs = multierr.Append(errs, pkgerrors.NewFieldError("code", msgBlank))
	case utf8.RuneCountInString(code) > models.ProductCodeMaxLength:
		errs = multierr.Append(errs, pkgerrors.NewFieldError("code", tooLong(models.ProductCodeMaxLength)))
	}

	switch name := strings.TrimSpace(p.Name); {
	case name == "":
		errs = multierr.Append(errs, pkgerrors.NewFieldError("name", msgBlank))
	case utf8.RuneCountInString(name) > models.ProductNameMaxLength:
		errs = multierr.Append(errs, pkgerrors.NewFieldError("name", tooLong(models.ProductNameMaxLength)))
	}

	if !p.Price.IsPositive() {
		errs = multierr.Append(errs, pkgerrors.NewFieldError("price", msgGreaterThanZero))
	}

	errs = multierr.Append(errs, ensureUniqueDiscounts(p.Discounts))
	for i, tier := range p.Discounts {
		errs = multierr.Append(errs, validateDiscount(i, tier))
	}

	if errs == nil {
		return nil
	}
	return pkgerrors.FromMultierr(errs).Validation("product is invalid")
}

func discountField(i int, field string) string {
	return fmt.Sprintf("discounts[%d].%s", i, field)
}

func ensureUniqueDiscounts(tiers []models.ProductDiscount) error {
	var errs error
	seen := make(map[int64]struct{}, len(tiers))
	for i, tier := range tiers {
		if _, ok := seen[tier.MinQuantity]; ok {
			errs = multierr.Append(errs, pkgerrors.NewFieldError(discountField(i, "min_quantity"), msgTaken))
			continue
		}
		seen[tier.MinQuantity] = struct{}{}
	}
	return errs
}

func validateDiscount(i int, tier models.ProductDiscount) error {
	var errs error
	if tier.MinQuantity <= 0 {
		errs = multierr.Append(errs, pkgerrors.NewFieldError(discountField(i, "min_quantity"), msgGreaterThanZero))
	}
	switch {
	case !tier.Percentage.IsPositive():
		errs = multierr.Append(errs, pkgerrors.NewFieldError(discountField(i, "percentage"), msgGreaterThanZero))
	case tier.Percentage.GreaterThan(hundred):
		errs = multierr.Append(errs, pkgerrors.NewFieldError(discountField(i, "percentage"), msgAtMostHundred))
	}
	return errs
}

// ParsePrice turns the raw price text into an amount rounded half-up to two
// places. A nil raw value reports the blank message.
func ParsePrice(raw *string) (decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.Zero, pkgerrors.FieldErrors{"price": {msgBlank}}.Validation("product is invalid")
	}
	value, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.Zero, pkgerrors.FieldErrors{"price": {msgNotANumber}}.Validation("product is invalid")
	}
	return types.RoundMoney(value), nil
}
