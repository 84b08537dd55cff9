package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smartbuy360/backend/internal/domain"
)

var _ domain.CatalogAPI = (*Client)(nil)

const (
	defaultMaxAttempts = 3
	maxResponseBytes   = 10 << 20
	userAgent          = "SmartBuy360-CLI/1.0"
)

// Client talks to the SmartBuy360 HTTP API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests at perSecond with the given burst
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithBackoff overrides the delay between attempts
func WithBackoff(backoff func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = backoff }
}

func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) { c.logger = lg }
}

// NewClient creates a new API client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
		maxAttempts: defaultMaxAttempts,
		backoff:     exponentialBackoff,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("apiclient")
	return c
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// request describes one logical call; it is replayed on every attempt
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// errorBody mirrors the server's error payload
type errorBody struct {
	Error string `json:"error"`
}

// do executes req with rate limiting and retries, decoding a 2xx body into out.
// Transport errors, 429 and 5xx are retried; other statuses are final.
func (c *Client) do(ctx context.Context, req request, out any) error {
	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(domain.ErrRateLimited, err.Error())
		}

		status, body, err := c.roundTrip(ctx, reqURL, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Debug("Request error", zap.String("url", reqURL), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		switch {
		case status >= 200 && status < 300:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		case status == http.StatusNotFound:
			return errors.Wrap(domain.ErrProductNotFound, serverMessage(body, status))
		case status == http.StatusTooManyRequests:
			lastErr = errors.Wrap(domain.ErrRateLimited, serverMessage(body, status))
		case status >= 500:
			lastErr = fmt.Errorf("status %d: %s", status, serverMessage(body, status))
		case status == http.StatusBadRequest:
			return errors.Wrap(domain.ErrInvalidRequest, serverMessage(body, status))
		default:
			return fmt.Errorf("unexpected status %d: %s", status, serverMessage(body, status))
		}

		c.logger.Debug("Retryable response", zap.String("url", reqURL), zap.Int("attempt", attempt), zap.Int("status", status))
	}

	c.logger.Warn("All retries failed", zap.String("url", reqURL), zap.Error(lastErr))
	return fmt.Errorf("%w: %s %s: %w", domain.ErrCatalogUnavailable, req.method, req.path, lastErr)
}

func (c *Client) roundTrip(ctx context.Context, reqURL string, req request) (int, []byte, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func serverMessage(body []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return http.StatusText(status)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func productPath(id string, suffix string) string {
	return "/api/v1/products/" + url.PathEscape(strings.TrimSpace(id)) + suffix
}

type searchBody struct {
	Results []struct {
		Product domain.Product `json:"product"`
	} `json:"results"`
}

func (b searchBody) products() []domain.Product {
	out := make([]domain.Product, 0, len(b.Results))
	for _, r := range b.Results {
		out = append(out, r.Product)
	}
	return out
}

// SearchProducts runs a name or barcode search on the server
func (c *Client) SearchProducts(ctx context.Context, query string, searchType domain.SearchType) ([]domain.Product, error) {
	if _, err := domain.ParseSearchType(string(searchType)); err != nil {
		return nil, err
	}

	var body searchBody
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/products/search",
		query:  url.Values{"q": {query}, "type": {string(searchType)}},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.products(), nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var body struct {
		Product domain.Product `json:"product"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id, "")}, &body); err != nil {
		return nil, err
	}
	return &body.Product, nil
}

func (c *Client) GetPriceHistory(ctx context.Context, id string) ([]domain.PricePoint, error) {
	var body struct {
		Points []domain.PricePoint `json:"points"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id, "/price-history")}, &body); err != nil {
		return nil, err
	}
	if body.Points == nil {
		body.Points = []domain.PricePoint{}
	}
	return body.Points, nil
}

func (c *Client) GetReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var body struct {
		Reviews []domain.Review `json:"reviews"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(productID, "/reviews")}, &body); err != nil {
		return nil, err
	}
	if body.Reviews == nil {
		body.Reviews = []domain.Review{}
	}
	return body.Reviews, nil
}

// SubmitReview validates locally before posting so obvious mistakes never
// leave the process.
func (c *Client) SubmitReview(ctx context.Context, review domain.ReviewSubmission) (*domain.ReviewReceipt, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(review)
	if err != nil {
		return nil, err
	}

	var receipt domain.ReviewReceipt
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        productPath(review.ProductID, "/reviews"),
		body:        payload,
		contentType: "application/json",
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UploadImage posts image as the multipart field "image"
func (c *Client) UploadImage(ctx context.Context, image []byte) ([]domain.Product, error) {
	if len(image) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidImage, "empty payload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "upload")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var body searchBody
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/products/search/image",
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &body)
	if errors.Is(err, domain.ErrInvalidRequest) {
		return nil, errors.Wrap(domain.ErrInvalidImage, err.Error())
	}
	if err != nil {
		return nil, err
	}
	return body.products(), nil
}
