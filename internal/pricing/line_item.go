package pricing

import (
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	MsgBlank           = "can't be blank"
	MsgGreaterThanZero = "must be greater than 0"
	MsgProductsUnique  = "Products must be unique"
)

var hundred = decimal.NewFromInt(100)

// LineItemInput is one raw (id, quantity) pair from a calculation request.
// Nil fields were absent or null in the payload.
type LineItemInput struct {
	ID       *int64 `json:"id"`
	Quantity *int64 `json:"quantity"`
}

// LineItem is an input paired with its resolved product, nil when the id
// did not match any product.
type LineItem struct {
	ID       *int64
	Quantity *int64
	Product  *models.Product
}

// Prices is the serialized money breakdown of a line item.
type Prices struct {
	PerItem  types.Money `json:"per_item"`
	Total    types.Money `json:"total"`
	TotalRaw types.Money `json:"total_raw"`
}

// PricedLineItem is the output for a valid line item. Amounts are kept
// unrounded and only rounded when serialized.
type PricedLineItem struct {
	ID       int64                   `json:"id"`
	Quantity int64                   `json:"quantity"`
	Prices   Prices                  `json:"prices"`
	Discount *models.ProductDiscount `json:"-"`
}

// Validate reports every rule the item breaks, keyed by field.
func (l LineItem) Validate() pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}
	if l.ID == nil {
		errs.Add("id", MsgBlank)
	}
	switch {
	case l.Quantity == nil:
		errs.Add("quantity", MsgBlank)
	case *l.Quantity <= 0:
		errs.Add("quantity", MsgGreaterThanZero)
	}
	if l.Product == nil {
		errs.Add("product", MsgBlank)
	}
	return errs
}

// BasePrice is the undiscounted price for the full quantity.
func (l LineItem) BasePrice() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(*l.Quantity))
}

// Discount returns the tier applied to this item, if any.
func (l LineItem) Discount() *models.ProductDiscount {
	return Resolve(l.Product.Discounts, *l.Quantity)
}

// DiscountedPrice is BasePrice reduced by the applied tier percentage.
func (l LineItem) DiscountedPrice() decimal.Decimal {
	base := l.BasePrice()
	tier := l.Discount()
	if tier == nil {
		return base
	}
	factor := decimal.NewFromInt(1).Sub(tier.Percentage.Div(hundred))
	return base.Mul(factor)
}

// Priced builds the output for a valid item. Call it only after Validate
// returned no errors.
func (l LineItem) Priced() PricedLineItem {
	return PricedLineItem{
		ID:       *l.ID,
		Quantity: *l.Quantity,
		Prices: Prices{
			PerItem:  types.NewMoney(l.Product.Price),
			Total:    types.NewMoney(l.DiscountedPrice()),
			TotalRaw: types.NewMoney(l.BasePrice()),
		},
		Discount: l.Discount(),
	}
}
