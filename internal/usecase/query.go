package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/smartbuy360/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	multipleSpacesRegex   = regexp.MustCompile(`\s+`)
	barcodeSeparatorRegex = regexp.MustCompile(`[\s\-.]`)
)

// NormalizeQuery trims the query and collapses inner whitespace.
// Case is kept; matching is case-insensitive anyway.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(query, " "))
}

// NormalizeBarcode strips the separators people type into EAN/UPC codes,
// e.g. "8 901234-567890" becomes "8901234567890".
func NormalizeBarcode(code string) string {
	return barcodeSeparatorRegex.ReplaceAllString(code, "")
}

// normalizeInput applies the normalization appropriate for the search mode
func normalizeInput(query string, searchType domain.SearchType) string {
	if searchType == domain.SearchByBarcode {
		return NormalizeBarcode(query)
	}
	return NormalizeQuery(query)
}

// searchCacheKey creates a normalized cache key for a search.
// Format: "search:{type}:{lowercased query}"
func searchCacheKey(searchType domain.SearchType, query string) string {
	return fmt.Sprintf("search:%s:%s", searchType, strings.ToLower(NormalizeQuery(query)))
}
