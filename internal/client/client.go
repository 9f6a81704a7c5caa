package client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"resty.dev/v3"
)

const (
	_transactionsURL = "/api/v1/users/{user}/books/{book}/transactions"
	_reportURL       = "/api/v1/users/{user}/books/{book}/report"
	_performanceURL  = "/api/v1/users/{user}/books/{book}/performance"
	_booksURL        = "/api/v1/users/{user}/books"
	_snapshotURL     = "/api/v1/snapshot"
)

// APIError is a non-2xx answer of the tracker API.
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name+" "+e.Fields[name])
	}
	sort.Strings(names)
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, strings.Join(names, "; "))
}

type Client struct {
	c *resty.Client

	logger logger.Logger
}

func New(address string, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(address)

	return &Client{
		c:      client,
		logger: logger,
	}
}

func (c *Client) Record(ctx context.Context, key model.BookKey, rec model.TransactionRecord) (model.Transaction, error) {
	var tx model.Transaction
	err := c.do(ctx, http.MethodPost, _transactionsURL, &key, rec, &tx)
	return tx, err
}

func (c *Client) Report(ctx context.Context, key model.BookKey) (model.Report, error) {
	var report model.Report
	err := c.do(ctx, http.MethodGet, _reportURL, &key, nil, &report)
	return report, err
}

func (c *Client) History(ctx context.Context, key model.BookKey) ([]model.HistoryEntry, error) {
	var history []model.HistoryEntry
	err := c.do(ctx, http.MethodGet, _transactionsURL, &key, nil, &history)
	return history, err
}

func (c *Client) Performance(ctx context.Context, key model.BookKey) ([]model.PerformancePoint, error) {
	var points []model.PerformancePoint
	err := c.do(ctx, http.MethodGet, _performanceURL, &key, nil, &points)
	return points, err
}

func (c *Client) Books(ctx context.Context, userID string) ([]string, error) {
	var books []string
	err := c.do(ctx, http.MethodGet, _booksURL, &model.BookKey{UserID: userID}, nil, &books)
	return books, err
}

func (c *Client) Snapshot(ctx context.Context) (model.Snapshot, error) {
	var snapshot model.Snapshot
	err := c.do(ctx, http.MethodGet, _snapshotURL, nil, nil, &snapshot)
	return snapshot, err
}

func (c *Client) do(ctx context.Context, method, url string, key *model.BookKey, body, result any) error {
	req := c.c.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&APIError{})
	if key != nil {
		req.SetPathParams(map[string]string{
			"user": key.UserID,
			"book": key.Book,
		})
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%w: can't send %s %s", err, method, url)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr.Message == "" {
			return &APIError{Status: resp.StatusCode(), Message: resp.Status()}
		}
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	if resp.IsSuccess() {
		return nil
	}

	return fmt.Errorf("unexpected response: %s", resp.Status())
}
