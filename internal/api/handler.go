package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/metrics"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/portfolio"
	"github.com/STTM-NSU/portfolio-tracker/internal/tracker"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Service interface {
	RecordTransaction(ctx context.Context, key model.BookKey, rec model.TransactionRecord) (model.Transaction, error)
	Report(ctx context.Context, key model.BookKey) (model.Report, error)
	Transactions(ctx context.Context, key model.BookKey) ([]model.HistoryEntry, error)
	Performance(ctx context.Context, key model.BookKey) ([]model.PerformancePoint, error)
	Books(ctx context.Context, userID string) ([]string, error)
	Snapshot() model.Snapshot
	SnapshotLoadedAt() time.Time
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status           string    `json:"status"`
	SnapshotLoadedAt time.Time `json:"snapshot_loaded_at"`
}

type Handler struct {
	service Service
	logger  logger.Logger
}

func NewHandler(service Service, logger logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.observe)

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/snapshot", h.GetSnapshot)
	v1.GET("/users/:user/books", h.GetBooks)

	book := v1.Group("/users/:user/books/:book")
	book.POST("/transactions", h.RecordTransaction)
	book.GET("/transactions", h.GetTransactions)
	book.GET("/report", h.GetReport)
	book.GET("/performance", h.GetPerformance)

	return r
}

func bookKey(c *gin.Context) model.BookKey {
	return model.BookKey{UserID: c.Param("user"), Book: c.Param("book")}
}

func (h *Handler) RecordTransaction(c *gin.Context) {
	var rec model.TransactionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tx, err := h.service.RecordTransaction(c.Request.Context(), bookKey(c), rec)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, tx)
}

func (h *Handler) GetTransactions(c *gin.Context) {
	history, err := h.service.Transactions(c.Request.Context(), bookKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), bookKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, presentReport(report))
}

func (h *Handler) GetPerformance(c *gin.Context) {
	points, err := h.service.Performance(c.Request.Context(), bookKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, presentPerformance(points))
}

func (h *Handler) GetBooks(c *gin.Context) {
	books, err := h.service.Books(c.Request.Context(), c.Param("user"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:           "up",
		SnapshotLoadedAt: h.service.SnapshotLoadedAt().UTC(),
	})
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot())
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, portfolio.ErrOversell):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Errorf("%s: %s %s failed", err, c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *Handler) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())

	h.logger.Debugf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}
