package http

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/usecase"
)

const (
	serviceName    = "smartbuy360-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog       domain.CatalogAPI
	compare       *usecase.CompareService
	maxImageBytes int64
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler. maxImageBytes bounds how much of an
// uploaded image is read; the catalog applies its own limit afterwards.
func NewHandler(catalog domain.CatalogAPI, maxImageBytes int64, lg *zap.Logger) *Handler {
	if lg == nil {
		lg = zap.NewNop()
	}
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20
	}
	h := &Handler{catalog: catalog, maxImageBytes: maxImageBytes, logger: lg.Named("http")}
	if catalog != nil {
		h.compare = usecase.NewCompareService(catalog)
	}
	return h
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	if h.catalog == nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": serviceName,
		"version": serviceVersion,
	})
}

// parseSort reads the optional sort parameter. Without one the results keep
// catalog order, as the catalog service returns them.
func parseSort(c *gin.Context) (domain.SortBy, error) {
	raw, ok := c.GetQuery("sort")
	if !ok || raw == "" {
		return "", nil
	}
	return domain.ParseSortBy(raw)
}

// SearchProducts handles GET /products/search?q=&type=&sort=
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	searchType, err := domain.ParseSearchType(c.Query("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	sortBy, err := parseSort(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	products, err := h.catalog.SearchProducts(c.Request.Context(), query, searchType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapSearchResponse(query, searchType, sortBy, products))
}

// SearchByImage handles POST /products/search/image with a multipart "image" field
func (h *Handler) SearchByImage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	sortBy, err := parseSort(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		h.respondError(c, errors.Wrap(domain.ErrInvalidImage, "multipart field \"image\" is required"))
		return
	}
	if header.Size > h.maxImageBytes {
		h.respondError(c, errors.Wrapf(domain.ErrInvalidImage, "%d bytes exceeds limit of %d", header.Size, h.maxImageBytes))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, errors.Wrap(domain.ErrInvalidImage, "unreadable upload"))
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		h.respondError(c, errors.Wrap(domain.ErrInvalidImage, "unreadable upload"))
		return
	}

	products, err := h.catalog.UploadImage(c.Request.Context(), image)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapSearchResponse("", domain.SearchByImage, sortBy, products))
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapProductResult(*product))
}

// CompareProduct handles GET /products/:id/compare
func (h *Handler) CompareProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	comparison, err := h.compare.Compare(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// GetPriceHistory handles GET /products/:id/price-history
func (h *Handler) GetPriceHistory(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	id := c.Param("id")
	points, err := h.catalog.GetPriceHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPriceHistory(id, points))
}

// GetReviews handles GET /products/:id/reviews
func (h *Handler) GetReviews(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	id := c.Param("id")
	reviews, err := h.catalog.GetReviews(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapReviews(id, reviews))
}

// SubmitReview handles POST /products/:id/reviews
func (h *Handler) SubmitReview(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ReviewSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Wrap(domain.ErrInvalidRequest, err.Error()))
		return
	}
	req.ProductID = c.Param("id")

	receipt, err := h.catalog.SubmitReview(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// ready answers 503 when the handler was built without a catalog
func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:     "catalog service not configured",
		RequestID: requestID(c),
	})
	return false
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Unhandled error", zap.Error(err), zap.String("request_id", requestID(c)))
		msg = "internal server error"
	}

	c.JSON(status, ErrorResponse{Error: msg, RequestID: requestID(c)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownSearchType),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this.
		return 499
	default:
		return http.StatusInternalServerError
	}
}
