package pricing

import (
	"testing"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestLineItemValidate(t *testing.T) {
	product := &models.Product{ID: 1, Price: decimal.RequireFromString("6.00")}

	cases := []struct {
		name string
		item LineItem
		want pkgerrors.FieldErrors
	}{
		{
			name: "valid",
			item: LineItem{ID: int64Ptr(1), Quantity: int64Ptr(2), Product: product},
			want: pkgerrors.FieldErrors{},
		},
		{
			name: "blankQuantityOnlyReportsPresence",
			item: LineItem{ID: int64Ptr(1), Product: product},
			want: pkgerrors.FieldErrors{"quantity": {MsgBlank}},
		},
		{
			name: "zeroQuantity",
			item: LineItem{ID: int64Ptr(1), Quantity: int64Ptr(0), Product: product},
			want: pkgerrors.FieldErrors{"quantity": {MsgGreaterThanZero}},
		},
		{
			name: "negativeQuantity",
			item: LineItem{ID: int64Ptr(1), Quantity: int64Ptr(-3), Product: product},
			want: pkgerrors.FieldErrors{"quantity": {MsgGreaterThanZero}},
		},
		{
			name: "missingProduct",
			item: LineItem{ID: int64Ptr(9), Quantity: int64Ptr(1)},
			want: pkgerrors.FieldErrors{"product": {MsgBlank}},
		},
		{
			name: "everythingMissing",
			item: LineItem{},
			want: pkgerrors.FieldErrors{
				"id":       {MsgBlank},
				"quantity": {MsgBlank},
				"product":  {MsgBlank},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.Validate())
		})
	}
}

func TestLineItemPricingWithoutDiscount(t *testing.T) {
	item := LineItem{
		ID:       int64Ptr(1),
		Quantity: int64Ptr(3),
		Product: &models.Product{
			Price:     decimal.RequireFromString("6.00"),
			Discounts: []models.ProductDiscount{tier(5, "10")},
		},
	}

	assert.Nil(t, item.Discount())
	assert.True(t, item.DiscountedPrice().Equal(item.BasePrice()))

	priced := item.Priced()
	assert.Equal(t, "6.00", priced.Prices.PerItem.String())
	assert.Equal(t, "18.00", priced.Prices.Total.String())
	assert.Equal(t, "18.00", priced.Prices.TotalRaw.String())
}

func TestLineItemPricingWithDiscount(t *testing.T) {
	item := LineItem{
		ID:       int64Ptr(2),
		Quantity: int64Ptr(5),
		Product: &models.Product{
			Price:     decimal.RequireFromString("15.00"),
			Discounts: []models.ProductDiscount{tier(3, "30")},
		},
	}

	priced := item.Priced()
	assert.Equal(t, int64(2), priced.ID)
	assert.Equal(t, int64(5), priced.Quantity)
	assert.Equal(t, "15.00", priced.Prices.PerItem.String())
	assert.Equal(t, "52.50", priced.Prices.Total.String())
	assert.Equal(t, "75.00", priced.Prices.TotalRaw.String())
	if assert.NotNil(t, priced.Discount) {
		assert.Equal(t, int64(3), priced.Discount.MinQuantity)
	}
}

func TestLineItemFullDiscountIsFree(t *testing.T) {
	item := LineItem{
		ID:       int64Ptr(1),
		Quantity: int64Ptr(2),
		Product: &models.Product{
			Price:     decimal.RequireFromString("9.99"),
			Discounts: []models.ProductDiscount{tier(1, "100")},
		},
	}
	assert.Equal(t, "0.00", item.Priced().Prices.Total.String())
}

func TestLineItemRoundsHalfUpAtSerialization(t *testing.T) {
	cases := map[string]string{
		"0.085": "0.09",
		"0.084": "0.08",
	}
	for price, want := range cases {
		item := LineItem{
			ID:       int64Ptr(1),
			Quantity: int64Ptr(1),
			Product:  &models.Product{Price: decimal.RequireFromString(price)},
		}
		priced := item.Priced()
		assert.Equal(t, want, priced.Prices.PerItem.String(), "per_item for %s", price)
		assert.Equal(t, want, priced.Prices.Total.String(), "total for %s", price)
		assert.Equal(t, price, priced.Prices.TotalRaw.Decimal.String(), "raw amount must stay unrounded")
	}
}
