// Package client provides an HTTP client for the visitor dashboard API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/frontdesk/visitor-dashboard/internal/visitor"
)

// Client is an HTTP client for the dashboard API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post("/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListOptions controls filtering and paging for ListVisitors.
type ListOptions struct {
	Page      int
	Limit     int
	Type      string
	Host      string
	Search    string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// query renders the options as a query string.
func (o ListOptions) query() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	for key, val := range map[string]string{
		"type":      o.Type,
		"host":      o.Host,
		"search":    o.Search,
		"startDate": o.StartDate,
		"endDate":   o.EndDate,
	} {
		if val != "" {
			q.Set(key, val)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListVisitors returns one page of visitor records.
func (c *Client) ListVisitors(opts ListOptions) (*visitor.ListResult, error) {
	var res visitor.ListResult
	if err := c.get("/api/visitors"+opts.query(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats returns the dashboard statistics.
func (c *Client) Stats() (*visitor.StatsResult, error) {
	var res visitor.StatsResult
	if err := c.get("/api/visitors/stats", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ChartData returns the daily visit series for the trailing window.
func (c *Client) ChartData(days int) ([]visitor.GroupCount, error) {
	path := "/api/visitors/chart-data"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var series []visitor.GroupCount
	if err := c.get(path, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Export returns the full filtered record set.
func (c *Client) Export(opts ListOptions) (*visitor.ExportResult, error) {
	opts.Page, opts.Limit = 0, 0
	var res visitor.ExportResult
	if err := c.get("/api/visitors/export"+opts.query(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health checks the server is reachable.
func (c *Client) Health() error {
	return c.get("/api/health", nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
