// Package supabase is a minimal client for the hosted backend: PostgREST row
// operations on a table and uploads to a public storage bucket.
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
)

// Client talks to a Supabase project using its anon key.
//
// The zero credentials case is valid: an unconfigured client reports itself
// as such and the storage layer never calls it.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// New creates a client. Empty credentials yield an unconfigured client.
func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{},
	}
}

// IsConfigured reports whether both the project URL and anon key are set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// apiError is the PostgREST error body.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// Select returns rows from table. The query carries PostgREST parameters
// such as select=*, order=created_at.desc or id=eq.<id>.
func (c *Client) Select(ctx context.Context, table string, query url.Values) ([]map[string]any, error) {
	return c.rest(ctx, http.MethodGet, table, query, "", nil)
}

// Count returns the exact number of rows in table without fetching them.
func (c *Client) Count(ctx context.Context, table string) (int, error) {
	q := url.Values{"select": {"*"}}
	req, err := c.newRequest(ctx, http.MethodHead, c.restURL(table, q), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("counting %s rows: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("counting %s rows: unexpected status %d", table, resp.StatusCode)
	}

	// Content-Range is "<from>-<to>/<total>" or "*/<total>".
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("counting %s rows: missing Content-Range", table)
	}
	count, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("counting %s rows: parsing Content-Range %q: %w", table, cr, err)
	}
	return count, nil
}

// Insert adds rows to table and returns the created representations.
func (c *Client) Insert(ctx context.Context, table string, rows []map[string]any) ([]map[string]any, error) {
	return c.rest(ctx, http.MethodPost, table, nil, "return=representation", rows)
}

// Update patches all rows matching filter and returns the updated
// representations. An empty result means no row matched.
func (c *Client) Update(ctx context.Context, table string, filter url.Values, values map[string]any) ([]map[string]any, error) {
	return c.rest(ctx, http.MethodPatch, table, filter, "return=representation", values)
}

// Delete removes all rows matching filter and returns the deleted
// representations, so callers can tell a no-op from a real delete.
func (c *Client) Delete(ctx context.Context, table string, filter url.Values) ([]map[string]any, error) {
	return c.rest(ctx, http.MethodDelete, table, filter, "return=representation", nil)
}

// Upload stores an object in a bucket under the given name.
func (c *Client) Upload(ctx context.Context, bucket, name, contentType string, data []byte) error {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, name)
	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading object %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("uploading object %s: %w", name, decodeError(resp))
	}
	return nil
}

// PublicURL returns the public URL for an object in a public bucket.
// No network call is needed; the URL is derived from the project URL.
func (c *Client) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, name)
}

func (c *Client) restURL(table string, query url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	return req, nil
}

// rest performs a row operation and decodes the JSON result, which is either
// a single object or an array of objects depending on the request.
func (c *Client) rest(ctx context.Context, method, table string, query url.Values, prefer string, body any) ([]map[string]any, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, c.restURL(table, query), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: %w", method, table, decodeError(resp))
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, table, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	// PostgREST returns arrays for multi-row requests and bare objects when
	// asked for a single row.
	if data[0] == '{' {
		var row map[string]any
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("%s %s: decoding response: %w", method, table, err)
		}
		return []map[string]any{row}, nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s %s: decoding response: %w", method, table, err)
	}
	return rows, nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
