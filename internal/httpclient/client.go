// Package httpclient performs the JSON GET requests shared by the briefing
// fetchers.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxBodyBytes = 4 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLimiter overrides the outbound rate limiter.
func WithLimiter(l Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// Client issues single-shot GET requests and decodes JSON responses.
// It never retries.
type Client struct {
	http    *http.Client
	limiter Limiter
	timeout time.Duration
}

// New builds a Client. A zero timeout leaves requests bounded only by the
// caller's context.
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON requests endpoint with the given query and headers and decodes the
// JSON body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, headers map[string]string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	target, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redact(target)
		}
		return fmt.Errorf("request %s: %w", target.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Code: resp.StatusCode, URL: redact(target)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

var secretParams = []string{"access_key", "key"}

// redact strips credential query parameters so errors can be shown to the user.
func redact(u *url.URL) string {
	clone := *u
	q := clone.Query()
	for _, name := range secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
		}
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}
