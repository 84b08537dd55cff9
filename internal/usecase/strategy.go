package usecase

import (
	"context"
	"strings"

	"github.com/smartbuy360/backend/internal/domain"
)

var (
	_ domain.SearchStrategy = (*NameStrategy)(nil)
	_ domain.SearchStrategy = (*PrefixStrategy)(nil)
)

// NameStrategy matches products whose title or category contains the
// query, case-insensitively. An empty query matches the whole catalog.
type NameStrategy struct {
	catalog domain.CatalogRepository
}

func NewNameStrategy(catalog domain.CatalogRepository) *NameStrategy {
	return &NameStrategy{catalog: catalog}
}

func (s *NameStrategy) Execute(ctx context.Context, input domain.SearchInput) ([]domain.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(input.Query))
	if needle == "" {
		return products, nil
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// PrefixStrategy returns the first Limit catalog products regardless of
// input. It stands in for barcode lookup and visual similarity until a real
// recognition back end is plugged in behind domain.SearchStrategy.
type PrefixStrategy struct {
	catalog domain.CatalogRepository
	limit   int
}

func NewPrefixStrategy(catalog domain.CatalogRepository, limit int) *PrefixStrategy {
	if limit < 0 {
		limit = 0
	}
	return &PrefixStrategy{catalog: catalog, limit: limit}
}

func (s *PrefixStrategy) Execute(ctx context.Context, _ domain.SearchInput) ([]domain.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return products[:min(s.limit, len(products))], nil
}

// DefaultStrategies wires one strategy per search mode
func DefaultStrategies(catalog domain.CatalogRepository, barcodeResults, imageResults int) map[domain.SearchType]domain.SearchStrategy {
	return map[domain.SearchType]domain.SearchStrategy{
		domain.SearchByName:    NewNameStrategy(catalog),
		domain.SearchByBarcode: NewPrefixStrategy(catalog, barcodeResults),
		domain.SearchByImage:   NewPrefixStrategy(catalog, imageResults),
	}
}
