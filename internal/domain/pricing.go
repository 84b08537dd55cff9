package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DealThreshold is the spread between the highest and lowest offer above
// which a product is flagged as a deal.
const DealThreshold int64 = 1000

// UnknownDelivery is reported for products whose delivery estimates cannot be parsed.
const UnknownDelivery = math.MaxInt

// BestPrice returns the lowest offer price, or 0 when the product has no offers
func (p *Product) BestPrice() int64 {
	offer, ok := p.BestOffer()
	if !ok {
		return 0
	}
	return offer.Price
}

// BestOffer returns the first offer carrying the lowest price
func (p *Product) BestOffer() (VendorOffer, bool) {
	if len(p.Prices) == 0 {
		return VendorOffer{}, false
	}
	best := p.Prices[0]
	for _, offer := range p.Prices[1:] {
		if offer.Price < best.Price {
			best = offer
		}
	}
	return best, true
}

// HighestPrice returns the highest offer price, or 0 when the product has no offers
func (p *Product) HighestPrice() int64 {
	var highest int64
	for i, offer := range p.Prices {
		if i == 0 || offer.Price > highest {
			highest = offer.Price
		}
	}
	return highest
}

// Savings is the spread between the highest and the lowest offer
func (p *Product) Savings() int64 {
	return p.HighestPrice() - p.BestPrice()
}

// IsDeal reports whether shopping around saves more than DealThreshold
func (p *Product) IsDeal() bool {
	return p.Savings() > DealThreshold
}

// AveragePrice is the arithmetic mean of all offer prices
func (p *Product) AveragePrice() decimal.Decimal {
	if len(p.Prices) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, offer := range p.Prices {
		sum = sum.Add(decimal.NewFromInt(offer.Price))
	}
	return sum.Div(decimal.NewFromInt(int64(len(p.Prices))))
}

// FastestDeliveryDays returns the smallest minimum delivery estimate across
// all offers. Offers with unparsable estimates are ignored; when none parse
// the result is (UnknownDelivery, false).
func (p *Product) FastestDeliveryDays() (int, bool) {
	fastest, found := UnknownDelivery, false
	for _, offer := range p.Prices {
		days, ok := ParseDeliveryMin(offer.DeliveryEstimate)
		if ok && days < fastest {
			fastest, found = days, true
		}
	}
	return fastest, found
}

// OffersByPrice returns a copy of the offers ordered by ascending price.
// Offers with equal prices keep their catalog order.
func (p *Product) OffersByPrice() []VendorOffer {
	offers := slices.Clone(p.Prices)
	slices.SortStableFunc(offers, func(a, b VendorOffer) int {
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	})
	return offers
}

// ParseDeliveryMin extracts the minimum day count from an estimate like
// "2-4 days": the leading integer of the text before the first '-'.
func ParseDeliveryMin(estimate string) (int, bool) {
	head, _, _ := strings.Cut(estimate, "-")
	head = strings.TrimSpace(head)

	end := 0
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	days, err := strconv.Atoi(head[:end])
	if err != nil {
		return 0, false
	}
	return days, true
}

// HistorySummary condenses a price series for charting
type HistorySummary struct {
	Points  int    `json:"points"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	First   int64  `json:"first"`
	Last    int64  `json:"last"`
	Lowest  int64  `json:"lowest"`
	Highest int64  `json:"highest"`
	Change  int64  `json:"change"` // last - first; negative means the price dropped
}

// SummarizeHistory computes the range and trend of a price series.
// An empty series yields a zero summary.
func SummarizeHistory(points []PricePoint) HistorySummary {
	if len(points) == 0 {
		return HistorySummary{}
	}
	first, last := points[0], points[len(points)-1]
	summary := HistorySummary{
		Points:  len(points),
		From:    first.Date,
		To:      last.Date,
		First:   first.Price,
		Last:    last.Price,
		Lowest:  first.Price,
		Highest: first.Price,
		Change:  last.Price - first.Price,
	}
	for _, pt := range points[1:] {
		summary.Lowest = min(summary.Lowest, pt.Price)
		summary.Highest = max(summary.Highest, pt.Price)
	}
	return summary
}
