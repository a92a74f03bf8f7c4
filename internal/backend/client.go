// Package backend is the HTTP client for the inventory REST API that owns
// products, orders and the aggregated sales report.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
)

// Client talks to the backend API. Every call is a single request without retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a client. token, when set, is sent as a bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ReportRange bounds the sales report; empty values are not sent.
type ReportRange struct {
	Start string
	End   string
}

// ListProducts returns every product, accepting paginated or bare lists.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getList(ctx, "/api/products/", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListSales returns the order list.
func (c *Client) ListSales(ctx context.Context) ([]SaleSummary, error) {
	var sales []SaleSummary
	if err := c.getList(ctx, "/api/sales/", nil, &sales); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// GetSale fetches a full order including its lines.
func (c *Client) GetSale(ctx context.Context, id int64) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/sales/%d/", id), nil, nil, &sale); err != nil {
		return nil, fmt.Errorf("get sale %d: %w", id, err)
	}
	return &sale, nil
}

// CreateSale submits an order. Rejections come back as *ServerError.
func (c *Client) CreateSale(ctx context.Context, req composer.OrderRequest) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, http.MethodPost, "/api/sales/", nil, req, &sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}
	return &sale, nil
}

// SalesReport fetches the aggregated report for the range.
func (c *Client) SalesReport(ctx context.Context, rng ReportRange) (*ReportPayload, error) {
	query := url.Values{}
	if rng.Start != "" {
		query.Set("start_date", rng.Start)
	}
	if rng.End != "" {
		query.Set("end_date", rng.End)
	}
	var payload ReportPayload
	if err := c.do(ctx, http.MethodGet, "/api/sales/report/", query, nil, &payload); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return &payload, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values, dest any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return err
	}
	return decodeList(raw, dest)
}

// decodeList accepts either a bare JSON array or a `{"results": [...]}` page.
func decodeList(raw json.RawMessage, dest any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return fmt.Errorf("%w: decode page: %v", ErrNetworkFailure, err)
		}
		trimmed = page.Results
	}
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if err := json.Unmarshal(trimmed, dest); err != nil {
		return fmt.Errorf("%w: decode list: %v", ErrNetworkFailure, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetworkFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, data)
	}
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetworkFailure, err)
	}
	return nil
}
