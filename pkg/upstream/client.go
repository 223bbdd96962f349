// Package upstream issues the single outbound HTTP call each tool makes to a
// geocoding or forecast provider and classifies the response.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// HTTPError is returned when the provider answers outside the 2xx range.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned HTTP status %d", e.Status)
}

// ParseError is returned when the provider body is not valid JSON, or not the
// JSON shape the caller asked for.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream returned invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when the request never produced a response: DNS,
// connection reset, client timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client performs a single GET per call. There are no retries and no caching.
type Client struct {
	http      *http.Client
	userAgent string
}

// New returns a Client. If httpClient is nil, a default with a 10s timeout is used.
func New(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{http: httpClient, userAgent: userAgent}
}

// FetchJSON GETs rawURL and decodes the body into a generic JSON value.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) (any, error) {
	var body any

	if err := c.FetchInto(ctx, rawURL, &body); err != nil {
		return nil, err
	}

	return body, nil
}

// FetchInto GETs rawURL and decodes the body into dst.
//
// The outbound request is detached from ctx cancellation: once issued it runs
// to completion, bounded only by the http.Client timeout. Values carried by ctx
// are kept.
func (c *Client) FetchInto(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	started := time.Now()
	resp, err := c.http.Do(req)

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = Redact(urlErr.URL)
		}

		log.Debug("upstream request failed", "url", Redact(rawURL), "err", err)
		return &NetworkError{Err: err}
	}

	defer resp.Body.Close()

	log.Debug("upstream response", "url", Redact(rawURL), "status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPError{Status: resp.StatusCode, URL: Redact(rawURL)}
	}

	dec := json.NewDecoder(resp.Body)

	if err := dec.Decode(dst); err != nil {
		return &ParseError{Err: err}
	}

	// The body must be exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return &ParseError{Err: err}
	}

	return nil
}

// secretParams never leave the process in logs or error text.
var secretParams = []string{"apikey", "api_key", "key", "appid"}

// Redact masks credential query parameters in rawURL.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	changed := false

	for _, name := range secretParams {
		if q.Get(name) != "" {
			q.Set(name, "REDACTED")
			changed = true
		}
	}

	if !changed {
		return rawURL
	}

	u.RawQuery = q.Encode()
	return u.String()
}
