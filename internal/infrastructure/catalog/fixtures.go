package catalog

import "github.com/smartbuy360/backend/internal/domain"

// FixtureProducts is the built-in demo catalog
func FixtureProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Title:       "Apple iPhone 15 Pro 128GB Natural Titanium",
			Image:       "https://images.unsplash.com/photo-1592910073723-a7b7de3da57a?w=400",
			AvgRating:   4.8,
			ReviewCount: 812,
			Category:    "Electronics",
			Description: "Latest iPhone with A17 Pro chip and advanced camera system",
			Prices: []domain.VendorOffer{
				{Vendor: "Amazon", Price: 134900, Link: "https://amazon.in", DeliveryEstimate: "1-2 days"},
				{Vendor: "Flipkart", Price: 132900, Link: "https://flipkart.com", DeliveryEstimate: "2-3 days"},
				{Vendor: "Croma", Price: 135900, Link: "https://croma.com", DeliveryEstimate: "3-5 days", Shipping: 500},
			},
		},
		{
			ID:          "2",
			Title:       "Samsung Galaxy S24 Ultra 256GB Titanium Black",
			Image:       "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=400",
			AvgRating:   4.7,
			ReviewCount: 645,
			Category:    "Electronics",
			Description: "Premium Android flagship with S Pen and advanced AI features",
			Prices: []domain.VendorOffer{
				{Vendor: "Samsung Store", Price: 129999, Link: "https://samsung.com", DeliveryEstimate: "1-2 days"},
				{Vendor: "Amazon", Price: 127500, Link: "https://amazon.in", DeliveryEstimate: "2-3 days"},
				{Vendor: "Flipkart", Price: 128900, Link: "https://flipkart.com", DeliveryEstimate: "1-2 days"},
			},
		},
		{
			ID:          "3",
			Title:       "Apple MacBook Air M3 13-inch 8GB/256GB Space Grey",
			Image:       "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400",
			AvgRating:   4.9,
			ReviewCount: 433,
			Category:    "Laptops",
			Description: "Ultra-thin laptop with M3 chip for incredible performance",
			Prices: []domain.VendorOffer{
				{Vendor: "Apple Store", Price: 114900, Link: "https://apple.com", DeliveryEstimate: "2-4 days"},
				{Vendor: "Amazon", Price: 112900, Link: "https://amazon.in", DeliveryEstimate: "1-2 days"},
				{Vendor: "Vijay Sales", Price: 115900, Link: "https://vijaysales.com", DeliveryEstimate: "3-5 days", Shipping: 1000},
			},
		},
		{
			ID:          "4",
			Title:       "Sony WH-1000XM5 Wireless Noise Cancelling Headphones",
			Image:       "https://images.unsplash.com/photo-1583394838336-acd977736f90?w=400",
			AvgRating:   4.6,
			ReviewCount: 927,
			Category:    "Audio",
			Description: "Premium wireless headphones with industry-leading noise cancellation",
			Prices: []domain.VendorOffer{
				{Vendor: "Sony Center", Price: 29990, Link: "https://sony.com", DeliveryEstimate: "2-3 days"},
				{Vendor: "Amazon", Price: 27999, Link: "https://amazon.in", DeliveryEstimate: "1-2 days"},
				{Vendor: "Flipkart", Price: 28500, Link: "https://flipkart.com", DeliveryEstimate: "2-4 days"},
				{Vendor: "Croma", Price: 29500, Link: "https://croma.com", DeliveryEstimate: "3-5 days", Shipping: 200},
			},
		},
		{
			ID:          "5",
			Title:       "Dell XPS 13 Plus Intel i7 16GB/512GB",
			Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
			AvgRating:   4.5,
			ReviewCount: 298,
			Category:    "Laptops",
			Description: "Premium ultrabook with stunning InfinityEdge display",
			Prices: []domain.VendorOffer{
				{Vendor: "Dell Store", Price: 145999, Link: "https://dell.com", DeliveryEstimate: "5-7 days"},
				{Vendor: "Amazon", Price: 142500, Link: "https://amazon.in", DeliveryEstimate: "2-3 days"},
				{Vendor: "Flipkart", Price: 144900, Link: "https://flipkart.com", DeliveryEstimate: "3-5 days", Shipping: 500},
			},
		},
	}
}

// FixturePriceHistory holds recorded price series keyed by product id
func FixturePriceHistory() map[string][]domain.PricePoint {
	return map[string][]domain.PricePoint{
		"1": {
			{Date: "2024-01-01", Price: 139900},
			{Date: "2024-01-15", Price: 137900},
			{Date: "2024-02-01", Price: 135900},
			{Date: "2024-02-15", Price: 134900},
			{Date: "2024-03-01", Price: 132900},
		},
		"2": {
			{Date: "2024-01-01", Price: 134999},
			{Date: "2024-01-15", Price: 132999},
			{Date: "2024-02-01", Price: 130999},
			{Date: "2024-02-15", Price: 129999},
			{Date: "2024-03-01", Price: 127500},
		},
	}
}

// FixtureReviews is the review set shipped with the demo catalog
func FixtureReviews() []domain.Review {
	return []domain.Review{
		{ID: "1", ProductID: "1", Rating: 5, Text: "Excellent phone with amazing camera quality and performance!", Author: "TechReviewer", Date: "2024-02-20", Helpful: 45},
		{ID: "2", ProductID: "1", Rating: 4, Text: "Great phone but battery could be better for heavy usage.", Author: "MobileUser", Date: "2024-02-18", Helpful: 23},
		{ID: "3", ProductID: "2", Rating: 5, Text: "The S Pen functionality is incredible for productivity!", Author: "BusinessUser", Date: "2024-02-19", Helpful: 38},
	}
}
