package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mugID    int64 = 1
	tshirtID int64 = 2
	hoodieID int64 = 3
)

type fakeFinder struct {
	products map[int64]models.Product
	err      error
	calls    int
	lastIDs  []int64
}

func (f *fakeFinder) FindWithDiscounts(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	f.calls++
	f.lastIDs = append([]int64(nil), ids...)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]models.Product, len(ids))
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func fixtureFinder() *fakeFinder {
	return &fakeFinder{products: map[int64]models.Product{
		mugID:    {ID: mugID, Code: "MUG", Price: decimal.RequireFromString("6.00")},
		tshirtID: {ID: tshirtID, Code: "TSHIRT", Price: decimal.RequireFromString("15.00"), Discounts: []models.ProductDiscount{tier(3, "30")}},
		hoodieID: {ID: hoodieID, Code: "HOODIE", Price: decimal.RequireFromString("20.00")},
	}}
}

func item(id, quantity int64) LineItemInput {
	return LineItemInput{ID: int64Ptr(id), Quantity: int64Ptr(quantity)}
}

func newTestCalculator(t *testing.T, finder ProductFinder) *Calculator {
	t.Helper()
	calc, err := NewCalculator(finder, nil, nil)
	require.NoError(t, err)
	return calc
}

func TestNewCalculatorRequiresFinder(t *testing.T) {
	_, err := NewCalculator(nil, nil, nil)
	require.Error(t, err)
}

func TestCalculateScenario(t *testing.T) {
	finder := fixtureFinder()
	calc := newTestCalculator(t, finder)

	result, err := calc.Calculate(context.Background(), []LineItemInput{
		item(mugID, 3),
		item(hoodieID, 1),
		item(tshirtID, 5),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, finder.calls, "products must be loaded in a single batch")
	assert.ElementsMatch(t, []int64{mugID, hoodieID, tshirtID}, finder.lastIDs)

	require.Len(t, result.Items, 3)
	assert.Equal(t, mugID, result.Items[0].ID)
	assert.Equal(t, hoodieID, result.Items[1].ID)
	assert.Equal(t, tshirtID, result.Items[2].ID)
	assert.Equal(t, "52.50", result.Items[2].Prices.Total.String())
	assert.Equal(t, "75.00", result.Items[2].Prices.TotalRaw.String())
	assert.Equal(t, "113.00", result.BaseTotal.String())
	assert.Equal(t, "90.50", result.DiscountedTotal.String())

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"items": [
			{"id":1,"quantity":3,"prices":{"per_item":"6.00","total":"18.00","total_raw":"18.00"}},
			{"id":3,"quantity":1,"prices":{"per_item":"20.00","total":"20.00","total_raw":"20.00"}},
			{"id":2,"quantity":5,"prices":{"per_item":"15.00","total":"52.50","total_raw":"75.00"}}
		],
		"discounted_total":"90.50",
		"base_total":"113.00"
	}`, string(payload))
}

func TestCalculateCollectsEveryError(t *testing.T) {
	calc := newTestCalculator(t, fixtureFinder())

	result, err := calc.Calculate(context.Background(), []LineItemInput{
		item(mugID, 2),
		item(mugID, 1),
		item(hoodieID, 0),
		item(0, 2),
	})
	require.Nil(t, result)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	fields, ok := pkgerrors.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.FieldErrors{
		"base":              {"Products must be unique"},
		"items[2].quantity": {"must be greater than 0"},
		"items[3].product":  {"can't be blank"},
	}, fields)
}

func TestCalculateDuplicatesAlwaysReportBase(t *testing.T) {
	calc := newTestCalculator(t, fixtureFinder())

	_, err := calc.Calculate(context.Background(), []LineItemInput{item(hoodieID, 1), item(hoodieID, 1)})
	fields, ok := pkgerrors.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.FieldErrors{"base": {MsgProductsUnique}}, fields)
}

func TestCalculateMissingFields(t *testing.T) {
	finder := fixtureFinder()
	calc := newTestCalculator(t, finder)

	_, err := calc.Calculate(context.Background(), []LineItemInput{
		{Quantity: int64Ptr(1)},
		{ID: int64Ptr(mugID)},
	})
	fields, ok := pkgerrors.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.FieldErrors{
		"items[0].id":       {MsgBlank},
		"items[0].product":  {MsgBlank},
		"items[1].quantity": {MsgBlank},
	}, fields)
	assert.Equal(t, []int64{mugID}, finder.lastIDs)
}

func TestCalculateMissingIDsAreDuplicates(t *testing.T) {
	finder := fixtureFinder()
	calc := newTestCalculator(t, finder)

	_, err := calc.Calculate(context.Background(), []LineItemInput{
		{Quantity: int64Ptr(1)},
		{Quantity: int64Ptr(2)},
	})
	fields, ok := pkgerrors.FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.FieldErrors{
		"base":             {MsgProductsUnique},
		"items[0].id":      {MsgBlank},
		"items[0].product": {MsgBlank},
		"items[1].id":      {MsgBlank},
		"items[1].product": {MsgBlank},
	}, fields)
	assert.Equal(t, 0, finder.calls)
}

func TestCalculateEmptyItems(t *testing.T) {
	finder := fixtureFinder()
	calc := newTestCalculator(t, finder)

	result, err := calc.Calculate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, finder.calls)
	assert.Empty(t, result.Items)
	assert.Equal(t, "0.00", result.BaseTotal.String())
	assert.Equal(t, "0.00", result.DiscountedTotal.String())

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"discounted_total":"0.00","base_total":"0.00"}`, string(payload))
}

func TestCalculateStoreFailureIsDependencyError(t *testing.T) {
	calc := newTestCalculator(t, &fakeFinder{err: errors.New("connection refused")})

	result, err := calc.Calculate(context.Background(), []LineItemInput{item(mugID, 1), item(mugID, 1)})
	require.Nil(t, result)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	_, isValidation := pkgerrors.FieldsOf(err)
	assert.False(t, isValidation)
}

func TestCalculateDiscountedNeverExceedsBase(t *testing.T) {
	calc := newTestCalculator(t, fixtureFinder())

	for qty := int64(1); qty <= 12; qty++ {
		result, err := calc.Calculate(context.Background(), []LineItemInput{
			item(mugID, qty),
			item(tshirtID, qty),
			item(hoodieID, qty),
		})
		require.NoError(t, err)
		assert.True(t, result.DiscountedTotal.LessThanOrEqual(result.BaseTotal.Decimal), "qty %d", qty)
		if qty < 3 {
			assert.True(t, result.DiscountedTotal.Equal(result.BaseTotal.Decimal), "qty %d below every tier", qty)
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	calc := newTestCalculator(t, fixtureFinder())
	inputs := []LineItemInput{item(tshirtID, 4), item(mugID, 7)}

	first, err := calc.Calculate(context.Background(), inputs)
	require.NoError(t, err)
	second, err := calc.Calculate(context.Background(), inputs)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
}

func TestCalculateRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	calc, err := NewCalculator(fixtureFinder(), nil, metrics.NewPricingMetrics(reg))
	require.NoError(t, err)

	_, err = calc.Calculate(context.Background(), []LineItemInput{item(tshirtID, 3)})
	require.NoError(t, err)
	_, err = calc.Calculate(context.Background(), []LineItemInput{item(mugID, 0)})
	require.Error(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "pricing_calculations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counts[metrics.OutcomeSuccess])
	assert.Equal(t, float64(1), counts[metrics.OutcomeValidation])
}
