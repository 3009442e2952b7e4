// Package supabase is a thin PostgREST client for the hosted data store.
// Every durable row the application touches lives behind this gateway; the
// backend itself keeps no database.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config configures the gateway client.
type Config struct {
	ProjectURL string
	APIKey     string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client performs REST calls against the project's PostgREST endpoint.
type Client struct {
	rest   string
	apiKey string
	http   *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}
	if _, err := url.Parse(cfg.ProjectURL); err != nil {
		return nil, fmt.Errorf("supabase: invalid project URL: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		rest:   strings.TrimRight(cfg.ProjectURL, "/") + "/rest/v1",
		apiKey: cfg.APIKey,
		http:   httpClient,
	}, nil
}

// Select fetches rows from a table into dest (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, q *Query, dest interface{}) error {
	if table == "" {
		return fmt.Errorf("supabase: table is required")
	}
	return c.do(ctx, http.MethodGet, c.tableURL(table, q), nil, nil, dest)
}

// Insert writes a record and decodes the returned representation into dest
// when dest is non-nil. PostgREST always answers with an array of rows.
func (c *Client) Insert(ctx context.Context, table string, record, dest interface{}) error {
	if table == "" {
		return fmt.Errorf("supabase: table is required")
	}
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, http.MethodPost, c.tableURL(table, nil), record, headers, dest)
}

// Update patches the rows matched by q. A query without a filter is refused
// so a bug can never rewrite a whole table.
func (c *Client) Update(ctx context.Context, table string, q *Query, fields, dest interface{}) error {
	if table == "" {
		return fmt.Errorf("supabase: table is required")
	}
	if !q.HasFilter() {
		return fmt.Errorf("supabase: refusing to update %s without a filter", table)
	}
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, http.MethodPatch, c.tableURL(table, q), fields, headers, dest)
}

// Delete removes the rows matched by q, decoding the deleted rows into dest
// when dest is non-nil. Unfiltered deletes are refused.
func (c *Client) Delete(ctx context.Context, table string, q *Query, dest interface{}) error {
	if table == "" {
		return fmt.Errorf("supabase: table is required")
	}
	if !q.HasFilter() {
		return fmt.Errorf("supabase: refusing to delete from %s without a filter", table)
	}
	var headers map[string]string
	if dest != nil {
		headers = map[string]string{"Prefer": "return=representation"}
	}
	return c.do(ctx, http.MethodDelete, c.tableURL(table, q), nil, headers, dest)
}

// Rpc calls a remote procedure under /rest/v1/rpc. The procedure runs in a
// single transaction on the gateway side, which is what gives
// save_invoice_with_items its all-or-nothing contract.
func (c *Client) Rpc(ctx context.Context, procedure string, args, dest interface{}) error {
	if procedure == "" {
		return fmt.Errorf("supabase: procedure name is required")
	}
	u := c.rest + "/rpc/" + url.PathEscape(procedure)
	return c.do(ctx, http.MethodPost, u, args, nil, dest)
}

// Count returns the exact number of rows matched by q without fetching them.
func (c *Client) Count(ctx context.Context, table string, q *Query) (int64, error) {
	if table == "" {
		return 0, fmt.Errorf("supabase: table is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.tableURL(table, q), nil)
	if err != nil {
		return 0, err
	}
	c.setHeaders(req, map[string]string{"Prefer": "count=exact"})
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase: count %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, parseAPIError(resp.StatusCode, nil)
	}
	// Content-Range looks like "0-24/42"; the total follows the slash.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 || idx == len(cr)-1 {
		return 0, fmt.Errorf("supabase: missing count in Content-Range %q", cr)
	}
	n, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supabase: bad count in Content-Range %q", cr)
	}
	return n, nil
}

func (c *Client) tableURL(table string, q *Query) string {
	u := c.rest + "/" + url.PathEscape(table)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, body interface{}, headers map[string]string, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req, headers)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}
	if dest == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, extra map[string]string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
}
