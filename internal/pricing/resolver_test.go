package pricing

import (
	"testing"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(minQty int64, pct string) models.ProductDiscount {
	return models.ProductDiscount{MinQuantity: minQty, Percentage: decimal.RequireFromString(pct)}
}

func TestResolve(t *testing.T) {
	tiers := []models.ProductDiscount{tier(3, "10"), tier(10, "25"), tier(5, "15")}

	cases := []struct {
		name     string
		quantity int64
		wantMin  int64
		wantNone bool
	}{
		{name: "belowEveryThreshold", quantity: 2, wantNone: true},
		{name: "exactThreshold", quantity: 3, wantMin: 3},
		{name: "betweenThresholds", quantity: 7, wantMin: 5},
		{name: "aboveAll", quantity: 100, wantMin: 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tiers, tc.quantity)
			if tc.wantNone {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantMin, got.MinQuantity)
		})
	}
}

func TestResolvePicksHighestPercentageNotHighestThreshold(t *testing.T) {
	tiers := []models.ProductDiscount{tier(2, "40"), tier(5, "20")}

	got := Resolve(tiers, 6)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.MinQuantity)
}

func TestResolveTieBreaksOnHighestMinQuantity(t *testing.T) {
	forward := []models.ProductDiscount{tier(2, "20"), tier(4, "20")}
	reversed := []models.ProductDiscount{tier(4, "20"), tier(2, "20")}

	for _, tiers := range [][]models.ProductDiscount{forward, reversed} {
		got := Resolve(tiers, 5)
		require.NotNil(t, got)
		assert.Equal(t, int64(4), got.MinQuantity)
	}
}

func TestResolveEmptyTiers(t *testing.T) {
	assert.Nil(t, Resolve(nil, 10))
}

func TestResolveReturnsCopy(t *testing.T) {
	tiers := []models.ProductDiscount{tier(1, "10")}
	got := Resolve(tiers, 1)
	require.NotNil(t, got)
	got.MinQuantity = 99
	assert.Equal(t, int64(1), tiers[0].MinQuantity)
}
