package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parkboard/internal/activity"
	"parkboard/internal/plan"
)

// Client is a minimal record-store HTTP API client. Every table exposes a
// records endpoint returning a JSON array, possibly empty.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 10 * time.Second,
	}
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListPlans fetches the user's plan records.
func (c *Client) ListPlans(ctx context.Context, userID string) ([]plan.Plan, error) {
	var plans []plan.Plan
	if err := c.get(ctx, c.tablePath("plans", userFilter(userID)), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// DisplayName fetches the user's display name from the users table. An empty
// result set yields an empty name, not an error; callers substitute a
// placeholder.
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	var users []struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.get(ctx, c.tablePath("users", userFilter(userID)), &users); err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", nil
	}
	return users[0].DisplayName, nil
}

// FetchRecords fetches records from a table filtered by id. Implements
// activity.Source.
func (c *Client) FetchRecords(ctx context.Context, table, id string) ([]activity.Record, error) {
	q := url.Values{}
	q.Set("id", id)
	var recs []activity.Record
	if err := c.get(ctx, c.tablePath(table, q), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	reqURL := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

func (c *Client) tablePath(table string, query url.Values) string {
	p := fmt.Sprintf("v0/tables/%s/records", url.PathEscape(table))
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return p
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func userFilter(userID string) url.Values {
	q := url.Values{}
	q.Set("user_id", userID)
	return q
}
