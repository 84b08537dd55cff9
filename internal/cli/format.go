package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/smartbuy360/backend/internal/domain"
)

// render writes v as indented JSON in json mode and calls table otherwise
func (a *app) render(v any, table func(w io.Writer)) error {
	if a.format == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(a.out)
	return nil
}

// printProducts prints products as numbered cards
func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		s := domain.Summarize(p)
		title := p.Title
		if s.IsDeal {
			title = "[DEAL] " + title
		}
		fmt.Fprintf(w, " %d. %s  (id %s)\n", i+1, title, p.ID)

		line := "    Best: " + formatPrice(s.BestPrice)
		if s.BestVendor != "" {
			line += " at " + s.BestVendor
		}
		if s.PriceRange > 0 {
			line += fmt.Sprintf("  (save %s)", formatPrice(s.PriceRange))
		}
		line += fmt.Sprintf("  |  %d offers", s.OfferCount)
		fmt.Fprintln(w, line)

		if p.AvgRating > 0 {
			fmt.Fprintf(w, "    Rating: %.1f (%d reviews)\n", p.AvgRating, p.ReviewCount)
		}
		if s.FastestDeliveryDays != nil {
			fmt.Fprintf(w, "    Delivery from %d days\n", *s.FastestDeliveryDays)
		}
	}
}

func printProduct(w io.Writer, p *domain.Product) {
	fmt.Fprintf(w, "%s  (id %s)\n", p.Title, p.ID)
	if p.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", p.Category)
	}
	if p.AvgRating > 0 {
		fmt.Fprintf(w, "Rating: %.1f (%d reviews)\n", p.AvgRating, p.ReviewCount)
	}
	if p.Description != "" {
		fmt.Fprintln(w, truncate(p.Description, 120))
	}
	fmt.Fprintln(w)
	printOffers(w, p.OffersByPrice())
}

func printOffers(w io.Writer, offers []domain.VendorOffer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VENDOR\tPRICE\tSHIPPING\tDELIVERY")
	for _, o := range offers {
		shipping := "free"
		if o.Shipping > 0 {
			shipping = formatPrice(o.Shipping)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Vendor, formatPrice(o.Price), shipping, o.DeliveryEstimate)
	}
	tw.Flush()
}

func printComparison(w io.Writer, c *domain.ProductComparison) {
	fmt.Fprintf(w, "%s  (id %s)\n\n", c.Product.Title, c.Product.ID)
	printOffers(w, c.Offers)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Best price:    %s at %s\n", formatPrice(c.BestPrice), c.BestOffer.Vendor)
	fmt.Fprintf(w, "Highest price: %s\n", formatPrice(c.HighestPrice))
	fmt.Fprintf(w, "Average price: %s\n", c.AveragePrice.StringFixed(2))
	if c.IsDeal {
		fmt.Fprintf(w, "Save up to %s by picking the best offer\n", formatPrice(c.Savings))
	}
	if c.FastestDeliveryDays != nil {
		fmt.Fprintf(w, "Fastest delivery: %d days\n", *c.FastestDeliveryDays)
	}
	if c.History.Points > 0 {
		fmt.Fprintf(w, "Price trend %s to %s: %s\n", c.History.From, c.History.To, formatChange(c.History.Change))
	}
	fmt.Fprintf(w, "Reviews: %d\n", len(c.Reviews))
}

func printHistory(w io.Writer, points []domain.PricePoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No price history.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPRICE")
	for _, pt := range points {
		fmt.Fprintf(tw, "%s\t%s\n", pt.Date, formatPrice(pt.Price))
	}
	tw.Flush()

	s := domain.SummarizeHistory(points)
	fmt.Fprintf(w, "\nLowest %s, highest %s, change %s\n",
		formatPrice(s.Lowest), formatPrice(s.Highest), formatChange(s.Change))
}

func printReviews(w io.Writer, reviews []domain.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return
	}
	for i, r := range reviews {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %s %s  by %s on %s\n", stars(r.Rating), r.ID, r.Author, r.Date)
		fmt.Fprintf(w, "    %s\n", truncate(r.Text, 160))
		if r.Helpful > 0 {
			fmt.Fprintf(w, "    %d found this helpful\n", r.Helpful)
		}
	}
}

// formatPrice formats a rupee amount with Indian digit grouping, e.g. "₹1,39,900"
func formatPrice(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + "₹" + s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return sign + "₹" + strings.Join(parts, ",") + "," + tail
}

func formatChange(change int64) string {
	switch {
	case change < 0:
		return "down " + formatPrice(-change)
	case change > 0:
		return "up " + formatPrice(change)
	}
	return "unchanged"
}

func stars(rating int) string {
	rating = min(max(rating, 0), 5)
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
