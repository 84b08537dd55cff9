package domain

import "github.com/go-faster/errors"

// SearchType selects which matching strategy the catalog applies
type SearchType string

const (
	SearchByName    SearchType = "name"
	SearchByBarcode SearchType = "barcode"
	SearchByImage   SearchType = "image"
)

// SortBy selects the ordering of a result set
type SortBy string

const (
	SortByPrice    SortBy = "price"
	SortByRating   SortBy = "rating"
	SortByDelivery SortBy = "delivery"
)

// ParseSearchType converts user input into a SearchType. Empty input means name search.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case "":
		return SearchByName, nil
	case SearchByName, SearchByBarcode, SearchByImage:
		return SearchType(s), nil
	}
	return "", errors.Wrapf(ErrUnknownSearchType, "%q", s)
}

// ParseSortBy converts user input into a SortBy. Empty input means price order.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case "":
		return SortByPrice, nil
	case SortByPrice, SortByRating, SortByDelivery:
		return SortBy(s), nil
	}
	return "", errors.Wrapf(ErrInvalidRequest, "unknown sort order %q", s)
}

// SearchInput is what a search strategy receives
type SearchInput struct {
	Query string
	Image []byte
}

// SearchState is a point-in-time view of the search store
type SearchState struct {
	Query      string     `json:"query"`
	SearchType SearchType `json:"searchType"`
	SortBy     SortBy     `json:"sortBy"`
	IsLoading  bool       `json:"isLoading"`
	Results    []Product  `json:"results"`
	Error      string     `json:"error,omitempty"`
	Token      uint64     `json:"token"`
}
