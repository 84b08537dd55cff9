package usecase

import (
	"slices"
	"sync"

	"github.com/smartbuy360/backend/internal/domain"
)

// SearchStore holds the state of the current search. Setters do no
// validation; callers normalize input before acting on it. Nothing here is
// persisted.
//
// Every search is tagged with a token from Begin. Only the holder of the
// latest token may publish results, so a slow earlier search can never
// overwrite a faster later one.
type SearchStore struct {
	mu    sync.RWMutex
	state domain.SearchState
}

func NewSearchStore() *SearchStore {
	return &SearchStore{state: domain.SearchState{
		SearchType: domain.SearchByName,
		SortBy:     domain.SortByPrice,
		Results:    []domain.Product{},
	}}
}

func (s *SearchStore) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = query
}

func (s *SearchStore) SetSearchType(searchType domain.SearchType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchType = searchType
}

func (s *SearchStore) SetSortBy(sortBy domain.SortBy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SortBy = sortBy
}

func (s *SearchStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

func (s *SearchStore) SetResults(results []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Results = cloneResults(results)
}

func (s *SearchStore) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Results = []domain.Product{}
}

// Begin records query and searchType, issues the token for the new search
// and marks the store loading. All of it happens under one lock so the
// latest token always belongs to the query shown in the state.
func (s *SearchStore) Begin(query string, searchType domain.SearchType) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = query
	s.state.SearchType = searchType
	s.state.Token++
	s.state.IsLoading = true
	s.state.Error = ""
	return s.state.Token
}

// Complete publishes results if token is still the latest one issued.
// It reports whether the results were applied.
func (s *SearchStore) Complete(token uint64, results []domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.state.Token {
		return false
	}
	s.state.Results = cloneResults(results)
	s.state.IsLoading = false
	s.state.Error = ""
	return true
}

// Fail records err as the error state if token is still the latest one.
// Results from the previous search are kept.
func (s *SearchStore) Fail(token uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.state.Token {
		return false
	}
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = err.Error()
	}
	return true
}

// IsCurrent reports whether token belongs to the latest search
func (s *SearchStore) IsCurrent(token uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return token == s.state.Token
}

// Snapshot returns a copy of the current state
func (s *SearchStore) Snapshot() domain.SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Results = cloneResults(s.state.Results)
	return st
}

// SortedResults returns the results ordered by the current sort preference
func (s *SearchStore) SortedResults() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SortProducts(s.state.Results, s.state.SortBy)
}

func cloneResults(results []domain.Product) []domain.Product {
	if results == nil {
		return []domain.Product{}
	}
	return slices.Clone(results)
}
