package catalog

import (
	"context"
	"slices"

	"github.com/go-faster/errors"

	"github.com/smartbuy360/backend/internal/domain"
)

var _ domain.CatalogRepository = (*MemoryCatalog)(nil)

// MemoryCatalog is a read-only catalog held in memory.
// Every read returns copies so callers can never mutate the catalog.
type MemoryCatalog struct {
	products []domain.Product
	byID     map[string]int
	history  map[string][]domain.PricePoint
	reviews  []domain.Review
}

// NewMemoryCatalog builds a catalog and rejects products that cannot be displayed
func NewMemoryCatalog(products []domain.Product, history map[string][]domain.PricePoint, reviews []domain.Review) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
		history:  make(map[string][]domain.PricePoint, len(history)),
		reviews:  slices.Clone(reviews),
	}

	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Wrapf(domain.ErrInvalidProduct, "duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, cloneProduct(p))
	}
	for id, series := range history {
		c.history[id] = slices.Clone(series)
	}

	return c, nil
}

// NewFixtureCatalog returns the built-in five-product demo catalog
func NewFixtureCatalog() *MemoryCatalog {
	c, err := NewMemoryCatalog(FixtureProducts(), FixturePriceHistory(), FixtureReviews())
	if err != nil {
		panic("catalog: invalid fixture data: " + err.Error())
	}
	return c
}

// List returns every product in catalog order
func (c *MemoryCatalog) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out, nil
}

// GetByID returns domain.ErrProductNotFound when the id is unknown
func (c *MemoryCatalog) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := cloneProduct(c.products[idx])
	return &p, nil
}

// PriceHistory returns the recorded series, or an empty one for unknown ids
func (c *MemoryCatalog) PriceHistory(ctx context.Context, id string) ([]domain.PricePoint, error) {
	series := c.history[id]
	if series == nil {
		return []domain.PricePoint{}, nil
	}
	return slices.Clone(series), nil
}

// Reviews returns the reviews written for productID
func (c *MemoryCatalog) Reviews(ctx context.Context, productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	for _, r := range c.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.Prices = slices.Clone(p.Prices)
	return p
}
