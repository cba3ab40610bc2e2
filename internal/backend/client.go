// Package backend talks to the stock lookup service over HTTP.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"stocksearch/internal/domain"
	"stocksearch/internal/logging"
)

// Lookup service routes
const (
	SuggestionsPath = "/api/suggestions/"
	StockPath       = "/api/stock/"
)

const maxBodyBytes = 1 << 20

var (
	// ErrStatus reports a non-2xx response
	ErrStatus = errors.New("unexpected status")

	// ErrPayload reports a response body of the wrong shape
	ErrPayload = errors.New("malformed payload")
)

// Client is an HTTP lookup backend
type Client struct {
	base   *url.URL
	http   *http.Client
	logger zerolog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout bounds each HTTP round trip
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logging.Component(logger, "backend") }
}

// NewClient creates a client for the service rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: missing host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Suggest returns the suggestion list for a fragment, in service order
func (c *Client) Suggest(ctx context.Context, fragment string) ([]string, error) {
	body, err := c.get(ctx, SuggestionsPath, fragment)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: suggestions must be a JSON array", ErrPayload)
	}

	items := result.Array()
	suggestions := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: suggestion %d is not a string", ErrPayload, i)
		}
		suggestions = append(suggestions, item.String())
	}
	return suggestions, nil
}

// Resolve fetches the detail record for an identifier
func (c *Client) Resolve(ctx context.Context, identifier string) (domain.DetailRecord, error) {
	body, err := c.get(ctx, StockPath, identifier)
	if err != nil {
		return domain.DetailRecord{}, err
	}

	rec, err := domain.ParseDetailRecord(body)
	if err != nil {
		return domain.DetailRecord{}, fmt.Errorf("%w: %w", ErrPayload, err)
	}
	return rec, nil
}

func (c *Client) get(ctx context.Context, route, segment string) ([]byte, error) {
	endpoint := c.base.String() + route + url.PathEscape(segment)
	requestID := logging.RequestIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(logging.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("request_id", requestID).
			Str("url", endpoint).
			Err(err).
			Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
			return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, msg.String())
		}
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrPayload)
	}
	return body, nil
}
