package http

import (
	"github.com/smartbuy360/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// ProductResult pairs a product with its card-level figures
type ProductResult struct {
	Product domain.Product        `json:"product"`
	Summary domain.ProductSummary `json:"summary"`
}

// SearchResponse is returned by both search endpoints
type SearchResponse struct {
	Query   string            `json:"query"`
	Type    domain.SearchType `json:"type"`
	Sort    domain.SortBy     `json:"sort,omitempty"`
	Count   int               `json:"count"`
	Results []ProductResult   `json:"results"`
}

// PriceHistoryResponse carries the raw series and its summary
type PriceHistoryResponse struct {
	ProductID string                `json:"productId"`
	Points    []domain.PricePoint   `json:"points"`
	Summary   domain.HistorySummary `json:"summary"`
}

// ReviewsResponse lists the reviews of one product
type ReviewsResponse struct {
	ProductID string          `json:"productId"`
	Count     int             `json:"count"`
	Reviews   []domain.Review `json:"reviews"`
}

// MapProductResult converts a product to its list representation
func MapProductResult(p domain.Product) ProductResult {
	return ProductResult{Product: p, Summary: domain.Summarize(p)}
}

// MapSearchResponse orders products by sortBy and wraps them for the wire.
// An empty sortBy keeps the order products arrived in.
func MapSearchResponse(query string, searchType domain.SearchType, sortBy domain.SortBy, products []domain.Product) SearchResponse {
	sorted := domain.SortProducts(products, sortBy)

	results := make([]ProductResult, 0, len(sorted))
	for _, p := range sorted {
		results = append(results, MapProductResult(p))
	}

	return SearchResponse{
		Query:   query,
		Type:    searchType,
		Sort:    sortBy,
		Count:   len(results),
		Results: results,
	}
}

func mapPriceHistory(id string, points []domain.PricePoint) PriceHistoryResponse {
	if points == nil {
		points = []domain.PricePoint{}
	}
	return PriceHistoryResponse{ProductID: id, Points: points, Summary: domain.SummarizeHistory(points)}
}

func mapReviews(id string, reviews []domain.Review) ReviewsResponse {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return ReviewsResponse{ProductID: id, Count: len(reviews), Reviews: reviews}
}
