package pricing

import "github.com/angelmondragon/catalog-pricing/pkg/db/models"

// Resolve returns the tier that applies to quantity: the highest percentage
// among tiers whose threshold is met, preferring the higher min_quantity on
// equal percentages. It returns nil when quantity is below every threshold.
func Resolve(tiers []models.ProductDiscount, quantity int64) *models.ProductDiscount {
	var selected *models.ProductDiscount
	for _, tier := range tiers {
		if tier.MinQuantity > quantity {
			continue
		}
		if selected == nil || better(tier, *selected) {
			selected = &tier
		}
	}
	return selected
}

func better(candidate, current models.ProductDiscount) bool {
	switch candidate.Percentage.Cmp(current.Percentage) {
	case 1:
		return true
	case 0:
		return candidate.MinQuantity > current.MinQuantity
	default:
		return false
	}
}
