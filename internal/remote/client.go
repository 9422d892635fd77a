// Package remote implements the HTTP/JSON client for the transaction
// service, the system's single external collaborator. The engine uses it as
// a cold-start seed source and as a fire-and-forget write target; it is
// never consulted before answering queries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"movimenti/internal/core"
	"movimenti/internal/log"
)

// Client talks to the remote transaction service.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *log.Logger
}

// NewClient creates a client against the given base URL. A nil httpClient
// falls back to a default client; the caller usually injects one carrying
// the configured timeout.
func NewClient(httpClient *http.Client, baseURL string, logger *log.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentRemote)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    parsed,
		logger:     logger,
	}, nil
}

type categoriesResponse struct {
	Items []core.Category `json:"items"`
}

type transactionsResponse struct {
	Items []core.Transaction `json:"items"`
}

type categorizeRequest struct {
	CatCode string `json:"catcode"`
}

type splitRequest struct {
	Splits []core.Split `json:"splits"`
}

// FetchCategories retrieves the full category taxonomy.
func (c *Client) FetchCategories(ctx context.Context) ([]core.Category, error) {
	const endpoint = "/categories"

	var resp categoriesResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Fetched categories",
		log.FieldEndpoint, endpoint,
		log.FieldCount, len(resp.Items))
	return resp.Items, nil
}

// FetchTransactions retrieves the full transaction set. Filtering and paging
// happen client-side over this seed.
func (c *Client) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	const endpoint = "/transactions"

	var resp transactionsResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Fetched transactions",
		log.FieldEndpoint, endpoint,
		log.FieldCount, len(resp.Items))
	return resp.Items, nil
}

// Categorize reports a category assignment to the remote system. Only
// success or failure matters to the caller; the response body is discarded.
func (c *Client) Categorize(ctx context.Context, transactionID, catcode string) error {
	endpoint := fmt.Sprintf("/transaction/%s/categorize", url.PathEscape(transactionID))
	return c.post(ctx, endpoint, categorizeRequest{CatCode: catcode})
}

// Split reports a split assignment to the remote system.
func (c *Client) Split(ctx context.Context, transactionID string, splits []core.Split) error {
	endpoint := fmt.Sprintf("/transaction/%s/split", url.PathEscape(transactionID))
	return c.post(ctx, endpoint, splitRequest{Splits: splits})
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(endpoint), nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &FetchError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &WriteError{Endpoint: endpoint, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(endpoint), bytes.NewReader(payload))
	if err != nil {
		return &WriteError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &WriteError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &WriteError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) resolve(endpoint string) string {
	ref := *c.baseURL
	ref.Path = strings.TrimSuffix(c.baseURL.Path, "/") + endpoint
	return ref.String()
}
