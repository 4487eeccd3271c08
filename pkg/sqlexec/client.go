package sqlexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// mysqlTimeLayout is how datetime parameters are rendered on the wire.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// Client executes statements against an HTTP SQL endpoint, one POST per
// statement. There is no connection state and no transaction support; each
// call is an independent request/response cycle.
type Client struct {
	endpoint string
	username string
	password string
	httpc    *http.Client
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to set a custom
// timeout or transport.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithClientLogger sets the logger used for per-request diagnostics.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given endpoint URL using HTTP basic
// auth credentials.
func NewClient(endpoint, username, password string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		username: username,
		password: password,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Executor = (*Client)(nil)

type wireRequest struct {
	Query  string `json:"query"`
	Params []any  `json:"params"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wireResponse struct {
	Rows         []Record   `json:"rows"`
	LastInsertID string     `json:"last_insert_id"`
	RowsAffected int64      `json:"rows_affected"`
	Error        *wireError `json:"error"`
}

// Execute sends one statement to the endpoint. Record arguments are expanded
// via ExpandSet before serialization, so the wire only ever carries scalar
// parameters.
func (c *Client) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	stmt, params := ExpandSet(query, args)

	body, err := json.Marshal(wireRequest{Query: stmt, Params: normalizeParams(params)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	requestID := uuid.New().String()
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("query endpoint returned non-OK status",
			"status", resp.StatusCode, "request_id", requestID)
		return nil, fmt.Errorf("query endpoint returned status %d: %s", resp.StatusCode, snippet)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	if wire.Error != nil {
		return nil, fmt.Errorf("query failed: %s (%s)", wire.Error.Message, wire.Error.Code)
	}

	c.logger.Debug("statement executed",
		"request_id", requestID,
		"rows", len(wire.Rows),
		"rows_affected", wire.RowsAffected)

	return &Result{
		Rows:         wire.Rows,
		LastInsertID: wire.LastInsertID,
		RowsAffected: wire.RowsAffected,
	}, nil
}

// normalizeParams converts parameter values the JSON encoder would mangle.
// Datetimes are sent in MySQL literal form rather than RFC 3339.
func normalizeParams(params []any) []any {
	out := make([]any, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case time.Time:
			out[i] = v.UTC().Format(mysqlTimeLayout)
		case []byte:
			out[i] = string(v)
		default:
			out[i] = p
		}
	}
	return out
}
