package domain

import (
	"cmp"
	"slices"
)

// SortProducts returns a copy of products in the requested order.
// The sort is stable so equal keys keep their catalog order.
func SortProducts(products []Product, by SortBy) []Product {
	sorted := slices.Clone(products)

	switch by {
	case SortByPrice:
		slices.SortStableFunc(sorted, func(a, b Product) int {
			return cmp.Compare(a.BestPrice(), b.BestPrice())
		})
	case SortByRating:
		// Highest rated first; unrated products carry 0.
		slices.SortStableFunc(sorted, func(a, b Product) int {
			return cmp.Compare(b.AvgRating, a.AvgRating)
		})
	case SortByDelivery:
		slices.SortStableFunc(sorted, func(a, b Product) int {
			da, _ := a.FastestDeliveryDays()
			db, _ := b.FastestDeliveryDays()
			return cmp.Compare(da, db)
		})
	}

	return sorted
}
