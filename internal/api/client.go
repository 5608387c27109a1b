// Package api implements the HTTP client for the remote ledger service.
//
// Every request carries the session bearer token and an opaque request id.
// Non-2xx responses are decoded into common.RemoteError, preserving any
// server-supplied message; transport failures wrap common.ErrUnreachable.
package api

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

	"github.com/google/uuid"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client talks to the ledger service REST API.
type Client struct {
	baseURL    string
	guard      session.Guard
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. The guard supplies
// the bearer credential on every request.
func NewClient(baseURL string, guard session.Guard) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		guard:   guard,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: newLoggingTransport(http.DefaultTransport),
		},
	}
}

// Categories returns every category, in server order.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	return c.getCategories(ctx, nil)
}

// CategoriesByType returns the categories filtered server-side to one type.
func (c *Client) CategoriesByType(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error) {
	return c.getCategories(ctx, url.Values{"type": []string{string(categoryType)}})
}

func (c *Client) getCategories(ctx context.Context, query url.Values) ([]model.Category, error) {
	resp, err := c.do(ctx, http.MethodGet, "/categories", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var categories []model.Category
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// CreateCategory submits a new category and returns the server's copy.
func (c *Client) CreateCategory(ctx context.Context, payload model.NewCategory) (*model.Category, error) {
	resp, err := c.do(ctx, http.MethodPost, "/categories", nil, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var created model.Category
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created category: %w", err)
	}
	return &created, nil
}

// UpdateCategory replaces the category identified by id.
func (c *Client) UpdateCategory(ctx context.Context, id string, payload model.NewCategory) error {
	resp, err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// Transactions returns the full ledger of the given kind, in server order.
func (c *Client) Transactions(ctx context.Context, kind model.LedgerKind) ([]model.Transaction, error) {
	resp, err := c.do(ctx, http.MethodGet, "/"+string(kind), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var transactions []model.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&transactions); err != nil {
		return nil, fmt.Errorf("failed to decode %s transactions: %w", kind, err)
	}
	return transactions, nil
}

// CreateTransaction appends a new transaction to the given ledger and
// returns the server's copy with its assigned id.
func (c *Client) CreateTransaction(ctx context.Context, kind model.LedgerKind, payload model.NewTransaction) (*model.Transaction, error) {
	resp, err := c.do(ctx, http.MethodPost, "/"+string(kind), nil, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var created model.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created transaction: %w", err)
	}
	return &created, nil
}

// DeleteTransaction removes one transaction. The service answers 200 or 204.
func (c *Client) DeleteTransaction(ctx context.Context, kind model.LedgerKind, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/"+string(kind)+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

// DownloadExport streams the spreadsheet export for one ledger. The caller
// owns the returned reader and must close it. Size is -1 when unknown.
func (c *Client) DownloadExport(ctx context.Context, kind model.LedgerKind) (io.ReadCloser, int64, error) {
	resp, err := c.do(ctx, http.MethodGet, "/"+string(kind)+"/download", nil, nil)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, 0, decodeError(resp)
	}
	return resp.Body, resp.ContentLength, nil
}

// EmailExport asks the service to mail the spreadsheet export. Any 200-class
// response counts as dispatched.
func (c *Client) EmailExport(ctx context.Context, kind model.LedgerKind) error {
	resp, err := c.do(ctx, http.MethodGet, "/"+string(kind)+"/email", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.guard.Token())
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnreachable, err)
	}
	return resp, nil
}

// decodeError converts a non-2xx response into a RemoteError, preserving the
// structured {message} body when the server sent one.
func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		_ = json.Unmarshal(data, &body)
	}

	return &common.RemoteError{StatusCode: resp.StatusCode, Message: body.Message}
}
