package domain

import "github.com/shopspring/decimal"

// ProductSummary is the card-level view of a product in a result list
type ProductSummary struct {
	BestPrice           int64  `json:"bestPrice"`
	BestVendor          string `json:"bestVendor"`
	PriceRange          int64  `json:"priceRange"`
	IsDeal              bool   `json:"isDeal"`
	FastestDeliveryDays *int   `json:"fastestDeliveryDays,omitempty"`
	OfferCount          int    `json:"offerCount"`
}

// ProductComparison is everything the compare page shows for one product
type ProductComparison struct {
	Product             Product         `json:"product"`
	Offers              []VendorOffer   `json:"offers"`
	BestOffer           VendorOffer     `json:"bestOffer"`
	BestPrice           int64           `json:"bestPrice"`
	HighestPrice        int64           `json:"highestPrice"`
	AveragePrice        decimal.Decimal `json:"averagePrice"`
	Savings             int64           `json:"savings"`
	IsDeal              bool            `json:"isDeal"`
	FastestDeliveryDays *int            `json:"fastestDeliveryDays,omitempty"`
	PriceHistory        []PricePoint    `json:"priceHistory"`
	History             HistorySummary  `json:"history"`
	Reviews             []Review        `json:"reviews"`
}

// Summarize builds the card view of p
func Summarize(p Product) ProductSummary {
	s := ProductSummary{
		BestPrice:  p.BestPrice(),
		PriceRange: p.Savings(),
		IsDeal:     p.IsDeal(),
		OfferCount: len(p.Prices),
	}
	if offer, ok := p.BestOffer(); ok {
		s.BestVendor = offer.Vendor
	}
	if days, ok := p.FastestDeliveryDays(); ok {
		s.FastestDeliveryDays = &days
	}
	return s
}

// NewComparison assembles the compare view from a product, its history and reviews
func NewComparison(p Product, history []PricePoint, reviews []Review) *ProductComparison {
	best, _ := p.BestOffer()
	c := &ProductComparison{
		Product:      p,
		Offers:       p.OffersByPrice(),
		BestOffer:    best,
		BestPrice:    p.BestPrice(),
		HighestPrice: p.HighestPrice(),
		AveragePrice: p.AveragePrice(),
		Savings:      p.Savings(),
		IsDeal:       p.IsDeal(),
		PriceHistory: history,
		History:      SummarizeHistory(history),
		Reviews:      reviews,
	}
	if c.PriceHistory == nil {
		c.PriceHistory = []PricePoint{}
	}
	if c.Reviews == nil {
		c.Reviews = []Review{}
	}
	if days, ok := p.FastestDeliveryDays(); ok {
		c.FastestDeliveryDays = &days
	}
	return c
}
