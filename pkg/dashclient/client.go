// Package dashclient provides a client for the registry dashboard API,
// including the infinite-fetch pager and virtualized window computation.
package dashclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Karthik-beta/data-app/internal/model"
)

// Client defines the dashboard API operations.
type Client interface {
	// Login authenticates and stores the session cookie for later calls.
	Login(ctx context.Context, username, password string) (model.Session, error)
	// Logout clears the server-side session cookie.
	Logout(ctx context.Context) error
	// Session returns the current user, or nil when not authenticated.
	Session(ctx context.Context) (*model.Session, error)
	// Records fetches one page of companies.
	Records(ctx context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error)
	// FilterOptions fetches the distinct values per filterable dimension.
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	// Analytics fetches the dashboard summary.
	Analytics(ctx context.Context) (*model.AnalyticsSummary, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. A cookie jar is attached when
// the client has none, since the session rides on a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.hc = hc
	}
}

type httpClient struct {
	baseURL string
	hc      *http.Client
}

// New creates a dashboard API client.
func New(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err == nil {
			c.hc.Jar = jar
		}
	}
	return c
}

type apiError struct {
	Error string `json:"error"`
}

// do issues a request and decodes the JSON response into out. Non-2xx
// responses surface the server's error message.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "dashclient: marshal request")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return eris.Wrap(err, "dashclient: build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return eris.Wrapf(err, "dashclient: %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return eris.Errorf("dashclient: %s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return eris.Errorf("dashclient: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "dashclient: decode %s response", path)
	}
	return nil
}

func (c *httpClient) Login(ctx context.Context, username, password string) (model.Session, error) {
	var resp struct {
		User model.Session `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	return resp.User, err
}

func (c *httpClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *httpClient) Session(ctx context.Context) (*model.Session, error) {
	var resp struct {
		User *model.Session `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// recordsPath encodes the filter selection and cursor as query parameters.
func recordsPath(f model.FilterSelection, cursor int64, limit int) string {
	params := url.Values{}
	params.Set("cursor", strconv.FormatInt(cursor, 10))
	params.Set("limit", strconv.Itoa(limit))
	if len(f.Statuses) > 0 {
		params.Set("statuses", strings.Join(f.Statuses, ","))
	}
	if len(f.Classes) > 0 {
		params.Set("classes", strings.Join(f.Classes, ","))
	}
	if len(f.Years) > 0 {
		years := make([]string, len(f.Years))
		for i, y := range f.Years {
			years[i] = strconv.Itoa(y)
		}
		params.Set("years", strings.Join(years, ","))
	}
	if len(f.Industries) > 0 {
		params.Set("industries", strings.Join(f.Industries, ","))
	}
	if len(f.StateCodes) > 0 {
		params.Set("stateCodes", strings.Join(f.StateCodes, ","))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	return fmt.Sprintf("/api/records?%s", params.Encode())
}

func (c *httpClient) Records(ctx context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
	var page model.Page
	if err := c.do(ctx, http.MethodGet, recordsPath(f, cursor, limit), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *httpClient) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var opts model.FilterOptions
	if err := c.do(ctx, http.MethodPost, "/api/records", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *httpClient) Analytics(ctx context.Context) (*model.AnalyticsSummary, error) {
	var summary model.AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, "/api/analytics", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
