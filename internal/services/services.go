package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/dom"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	userAgent      = "sweetlist/1.0"
	loginPath      = "/login"
)

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	// Cookie is the raw Cookie header of a logged-in browser session.
	Cookie string
	// CSRFToken overrides any token found on fetched pages.
	CSRFToken string
	// RateLimit is the number of requests per second. Zero disables pacing.
	RateLimit float64
	Logger    *log.Logger
}

// Client talks to the recipe web application.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cookie     string
	override   string
	limiter    *rate.Limiter
	logger     *log.Logger

	// mu guards token, which tea.Cmd goroutines share.
	mu    sync.RWMutex
	token string
}

// NewClient creates a Client. An empty BaseURL uses [DefaultBaseURL]; a nil HTTPClient gets a fresh client with
// the configured timeout.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:    base,
		httpClient: opts.HTTPClient,
		cookie:     strings.TrimSpace(opts.Cookie),
		override:   strings.TrimSpace(opts.CSRFToken),
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}, nil
}

// BaseURL returns the application root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// Authenticated reports whether a session cookie is configured.
func (c *Client) Authenticated() bool {
	return c.cookie != ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	return req, nil
}

// do paces and sends req. The caller closes the body of a successful response.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	c.logger.Debug("request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "elapsed", time.Since(start))

	if isLoginRedirect(req, resp) {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: redirected to %s", shared.ErrNotAuthenticated, resp.Request.URL.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return resp, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", shared.ErrAPIRequest, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return shared.ErrAPIRequest
}

func isNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// isLoginRedirect reports whether the login_required guard sent the request to the login page.
func isLoginRedirect(sent *http.Request, resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil || sent.URL.Path == loginPath {
		return false
	}
	return resp.Request.URL.Path == loginPath
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp.Body, v)
}

// fetchPage retrieves an HTML page and remembers its anti-forgery token.
func (c *Client) fetchPage(ctx context.Context, path string) (*dom.Page, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := dom.NewPage(resp.Body)
	if err != nil {
		return nil, err
	}

	if token := page.CSRFToken(); token != "" {
		c.setToken(token)
	}
	return page, nil
}

func (c *Client) cachedToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// postForm submits form fields and decodes the JSON envelope of the answer.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*models.ActionResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.action(req)
}

// postAction sends an optional JSON body with the token in the X-CSRFToken header.
func (c *Client) postAction(ctx context.Context, path, token string, payload any) (*models.ActionResult, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("X-CSRFToken", token)
	}

	return c.action(req)
}

func (c *Client) action(req *http.Request) (*models.ActionResult, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result models.ActionResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeJSON(r io.Reader, v any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUnexpectedResponse, err)
	}
	return nil
}
