// Package confluence fetches a single page from the Confluence REST API with its
// storage-format body expanded.
package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "confluence2rst/1.0"
)

// Page is the part of a Confluence page the converter needs.
type Page struct {
	ID    string
	Title string
	HTML  string
}

// AuthMethod decorates outgoing requests with credentials.
type AuthMethod interface {
	Apply(req *http.Request)
}

// BearerAuth sends a personal access token as a bearer token.
type BearerAuth struct {
	Token string
}

func (b BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.Token)
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

type Options struct {
	BaseURL    string
	Auth       AuthMethod
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	auth       AuthMethod
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if opts.Auth == nil {
		return nil, errors.New("auth is required")
	}
	if bearer, ok := opts.Auth.(BearerAuth); ok && strings.TrimSpace(bearer.Token) == "" {
		return nil, errors.New("api token is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    base,
		auth:       opts.Auth,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		httpClient: hc,
	}, nil
}

// PageURL returns the content endpoint for pageID.
func (c *Client) PageURL(pageID string) string {
	return fmt.Sprintf("%s/wiki/rest/api/content/%s?expand=body.storage", c.baseURL, url.PathEscape(pageID))
}

type contentResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

// GetPage issues one GET for pageID. It does not retry.
func (c *Client) GetPage(ctx context.Context, pageID string) (Page, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return Page{}, errors.New("page id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(pageID), nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	c.auth.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Page{}, fmt.Errorf("fetch timed out after %s: %w", c.timeout, err)
		}
		return Page{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded contentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Page{}, fmt.Errorf("decode page %s: %w", pageID, err)
	}

	id := decoded.ID
	if id == "" {
		id = pageID
	}
	return Page{ID: id, Title: decoded.Title, HTML: decoded.Body.Storage.Value}, nil
}
