package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/token"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultMaxRetryDelay = 5 * time.Second

	// maxPageSize bounds how much of a page is read.
	maxPageSize = 1 << 20
)

// Client sends requests to one SimpleLink HTTP server.
type Client struct {
	// BaseURL is the server root, e.g. "http://192.168.1.20:80"
	BaseURL string

	// Username and Password enable HTTP Basic Auth when Username is set
	Username string
	Password string

	HTTPClient *http.Client

	MaxRetries    uint64
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetAuth sets HTTP Basic Auth credentials.
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// Ping checks that the server answers its root page.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Page(ctx, "/")
	return err
}

// Page fetches the page at path with GET tokens already substituted by the
// server.
func (c *Client) Page(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		body, err = c.do(c.HTTPClient, req, false)
		return err
	})
	return body, err
}

// PostTokens submits values, keyed by 2-character token id, as a form to
// path. Each id becomes a __SL_P_U form field. The server answers a form
// post with a redirect; it is not followed and counts as success.
func (c *Client) PostTokens(ctx context.Context, path string, values map[string]string) error {
	form, err := FormValues(values)
	if err != nil {
		return err
	}
	encoded := form.Encode()
	hc := c.noRedirectClient()

	return c.retry(ctx, func() error {
		req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(encoded))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		_, err = c.do(hc, req, true)
		return err
	})
}

// FormValues converts token values to form fields. Ids must be exactly two
// bytes.
func FormValues(values map[string]string) (url.Values, error) {
	if len(values) == 0 {
		return nil, &Error{Type: ErrTypeRequest, Message: "no token values given"}
	}

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	form := make(url.Values, len(values))
	for _, s := range ids {
		id, err := token.Parse(s)
		if err != nil || len(s) != token.Width {
			return nil, &Error{
				Type:    ErrTypeRequest,
				Message: fmt.Sprintf("token id %q must be exactly %d characters", s, token.Width),
				Err:     token.ErrInvalid,
			}
		}
		form.Set(id.PostName(), values[s])
	}
	return form, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, backoff.Permanent(&Error{Type: ErrTypeRequest, Message: "failed to create request", Err: err})
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	return req, nil
}

// noRedirectClient returns a copy of HTTPClient that stops at the first
// response instead of following redirects.
func (c *Client) noRedirectClient() *http.Client {
	hc := http.Client{}
	if c.HTTPClient != nil {
		hc = *c.HTTPClient
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &hc
}

func (c *Client) do(hc *http.Client, req *http.Request, redirectOK bool) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, permanentUnlessRetryable(classify(req.Method+" request failed", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, permanentUnlessRetryable(classify("failed to read response body", err))
	}

	logging.LogHTTPRequest(c.BaseURL, req.Method, req.URL.Path, resp.StatusCode)

	if !successStatus(resp.StatusCode, redirectOK) {
		return nil, permanentUnlessRetryable(httpError(resp.StatusCode,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode)))
	}
	return body, nil
}

func successStatus(code int, redirectOK bool) bool {
	if code >= 200 && code <= 299 {
		return true
	}
	return redirectOK && code >= 300 && code <= 399
}

func permanentUnlessRetryable(e *Error) error {
	if e.Retryable {
		return e
	}
	return backoff.Permanent(e)
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.RetryDelay
	exp.MaxInterval = c.MaxRetryDelay
	exp.MaxElapsedTime = 0

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if c.MaxRetries > 0 {
		policy = backoff.WithMaxRetries(exp, c.MaxRetries)
	}

	b := backoff.WithContext(policy, ctx)
	return backoff.RetryNotify(op, b, func(err error, next time.Duration) {
		logging.Debug("Request failed, retrying",
			zap.String("server", c.BaseURL),
			zap.Duration("in", next),
			zap.Error(err))
	})
}
