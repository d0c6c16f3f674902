package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductFinder loads products with their discount tiers in one round trip.
// Ids without a product are absent from the returned map.
type ProductFinder interface {
	FindWithDiscounts(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

// Result is a successful calculation. Items keep the request order.
type Result struct {
	Items           []PricedLineItem `json:"items"`
	DiscountedTotal types.Money      `json:"discounted_total"`
	BaseTotal       types.Money      `json:"base_total"`
}

// Calculator prices batches of line items.
type Calculator struct {
	finder  ProductFinder
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// NewCalculator builds a calculator. logg and m may be nil.
func NewCalculator(finder ProductFinder, logg *logger.Logger, m *metrics.PricingMetrics) (*Calculator, error) {
	if finder == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &Calculator{finder: finder, logg: logg, metrics: m}, nil
}

// Calculate validates the batch and prices it. Validation failures return a
// VALIDATION_ERROR carrying every collected FieldErrors entry; a failing
// store returns DEPENDENCY_ERROR.
func (c *Calculator) Calculate(ctx context.Context, inputs []LineItemInput) (*Result, error) {
	started := time.Now()

	products, err := c.load(ctx, inputs)
	if err != nil {
		c.metrics.ObserveCalculation(metrics.OutcomeDependency, len(inputs), time.Since(started))
		return nil, err
	}

	items := make([]LineItem, len(inputs))
	for i, input := range inputs {
		items[i] = LineItem{ID: input.ID, Quantity: input.Quantity}
		if input.ID == nil {
			continue
		}
		if product, ok := products[*input.ID]; ok {
			items[i].Product = &product
		}
	}

	if errs := validate(items); !errs.Empty() {
		c.metrics.ObserveCalculation(metrics.OutcomeValidation, len(inputs), time.Since(started))
		if c.logg != nil {
			c.logg.Info(c.logg.WithField(ctx, "error_count", len(errs)), "pricing.invalid")
		}
		return nil, errs.Validation("calculation is invalid")
	}

	result := aggregate(items)
	discounted := 0
	for _, item := range result.Items {
		if item.Discount != nil {
			discounted++
		}
	}
	c.metrics.AddDiscountedItems(discounted)
	c.metrics.ObserveCalculation(metrics.OutcomeSuccess, len(inputs), time.Since(started))
	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"item_count":       len(result.Items),
			"base_total":       result.BaseTotal.String(),
			"discounted_total": result.DiscountedTotal.String(),
		})
		c.logg.Info(logCtx, "pricing.calculated")
	}
	return result, nil
}

func (c *Calculator) load(ctx context.Context, inputs []LineItemInput) (map[int64]models.Product, error) {
	ids := distinctIDs(inputs)
	if len(ids) == 0 {
		return map[int64]models.Product{}, nil
	}
	products, err := c.finder.FindWithDiscounts(ctx, ids)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return products, nil
}

func distinctIDs(inputs []LineItemInput) []int64 {
	seen := make(map[int64]struct{}, len(inputs))
	ids := make([]int64, 0, len(inputs))
	for _, input := range inputs {
		if input.ID == nil {
			continue
		}
		if _, ok := seen[*input.ID]; ok {
			continue
		}
		seen[*input.ID] = struct{}{}
		ids = append(ids, *input.ID)
	}
	return ids
}

func validate(items []LineItem) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}
	if hasDuplicates(items) {
		errs.Add(pkgerrors.BaseField, MsgProductsUnique)
	}
	for i, item := range items {
		errs.Merge(fmt.Sprintf("items[%d]", i), item.Validate())
	}
	return errs
}

// hasDuplicates treats a missing id as a value of its own, so two id-less
// items also count as a repeat.
func hasDuplicates(items []LineItem) bool {
	seen := make(map[int64]struct{}, len(items))
	missingSeen := false
	for _, item := range items {
		if item.ID == nil {
			if missingSeen {
				return true
			}
			missingSeen = true
			continue
		}
		if _, ok := seen[*item.ID]; ok {
			return true
		}
		seen[*item.ID] = struct{}{}
	}
	return false
}

func aggregate(items []LineItem) *Result {
	result := &Result{Items: make([]PricedLineItem, 0, len(items))}
	base := decimal.Zero
	discounted := decimal.Zero
	for _, item := range items {
		priced := item.Priced()
		base = base.Add(priced.Prices.TotalRaw.Decimal)
		discounted = discounted.Add(priced.Prices.Total.Decimal)
		result.Items = append(result.Items, priced)
	}
	result.BaseTotal = types.NewMoney(base)
	result.DiscountedTotal = types.NewMoney(discounted)
	return result
}
