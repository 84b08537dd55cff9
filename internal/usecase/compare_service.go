package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/smartbuy360/backend/internal/domain"
)

// CompareService assembles the product comparison view
type CompareService struct {
	api domain.CatalogAPI
}

func NewCompareService(api domain.CatalogAPI) *CompareService {
	return &CompareService{api: api}
}

// Compare fetches the product, its price history and its reviews
// concurrently and derives the comparison figures from them.
func (s *CompareService) Compare(ctx context.Context, id string) (*domain.ProductComparison, error) {
	var (
		product *domain.Product
		history []domain.PricePoint
		reviews []domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.api.GetProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.api.GetPriceHistory(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.api.GetReviews(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	return domain.NewComparison(*product, history, reviews), nil
}
