package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a private prometheus registry and the collectors the
// service reports to. Each instance is independent so tests can build as
// many as they like.
type Registry struct {
	reg *prometheus.Registry

	Searches          *prometheus.CounterVec
	SearchResults     prometheus.Histogram
	SearchCacheHits   prometheus.Counter
	StaleDiscarded    prometheus.Counter
	FavoriteMutations *prometheus.CounterVec
	ReviewsSubmitted  prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartbuy_search_requests_total",
		Help: "Catalog searches by search type and outcome.",
	}, []string{"type", "outcome"})
	results := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartbuy_search_results",
		Help:    "Number of products returned per search.",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartbuy_search_cache_hits_total",
		Help: "Searches answered from the result cache.",
	})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartbuy_search_stale_discarded_total",
		Help: "Search results dropped because a newer search was issued.",
	})
	favorites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartbuy_favorites_mutations_total",
		Help: "Favorites store mutations by operation.",
	}, []string{"op"})
	reviews := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartbuy_reviews_submitted_total",
		Help: "Reviews accepted by the catalog service.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartbuy_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartbuy_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	r.MustRegister(
		searches, results, cacheHits, stale, favorites, reviews, httpRequests, httpDuration,
		collectors.NewGoCollector(),
	)

	return &Registry{
		reg:               r,
		Searches:          searches,
		SearchResults:     results,
		SearchCacheHits:   cacheHits,
		StaleDiscarded:    stale,
		FavoriteMutations: favorites,
		ReviewsSubmitted:  reviews,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
	}
}

// Gatherer exposes the underlying registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
