package domain

import (
	"strings"

	"github.com/go-faster/errors"
)

// Product represents a catalog item with the offers of every vendor selling it
type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Image       string        `json:"image"`
	AvgRating   float64       `json:"avgRating,omitempty"` // 0-5, 0 when unrated
	ReviewCount int           `json:"reviewCount,omitempty"`
	Category    string        `json:"category,omitempty"`
	Description string        `json:"description,omitempty"`
	Prices      []VendorOffer `json:"prices"`
}

// VendorOffer is one seller's price and delivery terms for a product
type VendorOffer struct {
	Vendor           string `json:"vendor"`
	Price            int64  `json:"price"` // whole currency units
	Link             string `json:"link"`
	DeliveryEstimate string `json:"deliveryEstimate"` // "<min>-<max> days"
	Shipping         int64  `json:"shipping,omitempty"`
}

// PricePoint is a single observation in a product's price history
type PricePoint struct {
	Date  string `json:"date"` // ISO date, e.g. 2024-01-15
	Price int64  `json:"price"`
}

// Review is a user review attached to a product
type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Date      string `json:"date"`
	Helpful   int    `json:"helpful"`
}

// ReviewSubmission is the payload accepted when a user writes a review
type ReviewSubmission struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Text      string `json:"text" binding:"required"`
	Author    string `json:"author" binding:"required"`
}

// ReviewReceipt acknowledges a submitted review
type ReviewReceipt struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Validate reports whether the product can be displayed and stored.
// A product needs an identity and at least one vendor offer.
func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.ID) == "" {
		return errors.Wrap(ErrInvalidProduct, "empty id")
	}
	if len(p.Prices) == 0 {
		return errors.Wrapf(ErrInvalidProduct, "product %q has no offers", p.ID)
	}
	for i, offer := range p.Prices {
		if offer.Price <= 0 {
			return errors.Wrapf(ErrInvalidProduct, "product %q offer %d: non-positive price", p.ID, i)
		}
		if offer.Shipping < 0 {
			return errors.Wrapf(ErrInvalidProduct, "product %q offer %d: negative shipping", p.ID, i)
		}
	}
	return nil
}

// Validate checks a review submission before it is accepted
func (r *ReviewSubmission) Validate() error {
	if r == nil {
		return ErrInvalidRequest
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return errors.Wrap(ErrInvalidRequest, "product id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.Wrapf(ErrInvalidRequest, "rating %d out of range 1-5", r.Rating)
	}
	if strings.TrimSpace(r.Text) == "" {
		return errors.Wrap(ErrInvalidRequest, "review text is required")
	}
	if strings.TrimSpace(r.Author) == "" {
		return errors.Wrap(ErrInvalidRequest, "author is required")
	}
	return nil
}
