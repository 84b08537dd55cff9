package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
)

// SearchSession runs searches against a catalog API and publishes the
// outcome into a SearchStore using the store's token protocol.
type SearchSession struct {
	store   *SearchStore
	api     domain.CatalogAPI
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewSearchSession(store *SearchStore, api domain.CatalogAPI, lg *zap.Logger, reg *metrics.Registry) *SearchSession {
	if lg == nil {
		lg = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &SearchSession{store: store, api: api, logger: lg.Named("session"), metrics: reg}
}

// Store returns the store this session publishes into
func (s *SearchSession) Store() *SearchStore { return s.store }

// Search records query and mode, runs the search and publishes the result.
// A search overtaken by a newer one returns domain.ErrSuperseded and
// leaves the store untouched.
func (s *SearchSession) Search(ctx context.Context, query string, searchType domain.SearchType) (domain.SearchState, error) {
	token := s.store.Begin(query, searchType)

	results, err := s.api.SearchProducts(ctx, normalizeInput(query, searchType), searchType)
	return s.finish(token, results, err)
}

// SearchByImage runs a visual search with the uploaded image
func (s *SearchSession) SearchByImage(ctx context.Context, image []byte) (domain.SearchState, error) {
	token := s.store.Begin("", domain.SearchByImage)

	results, err := s.api.UploadImage(ctx, image)
	return s.finish(token, results, err)
}

func (s *SearchSession) finish(token uint64, results []domain.Product, err error) (domain.SearchState, error) {
	if err != nil {
		if !s.store.Fail(token, err) {
			s.discard(token)
			return s.store.Snapshot(), domain.ErrSuperseded
		}
		s.logger.Warn("Search failed", zap.Uint64("token", token), zap.Error(err))
		return s.store.Snapshot(), err
	}

	if !s.store.Complete(token, results) {
		s.discard(token)
		return s.store.Snapshot(), domain.ErrSuperseded
	}
	return s.store.Snapshot(), nil
}

func (s *SearchSession) discard(token uint64) {
	s.metrics.StaleDiscarded.Inc()
	s.logger.Debug("Discarding stale search result", zap.Uint64("token", token))
}
