package spotify

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
	"unicode/utf8"
)

// body is an optional request payload: either a value serialized as
// JSON, or raw bytes for binary uploads.
type body struct {
	json any
	raw  []byte
}

func jsonBody(v any) *body {
	return &body{json: v}
}

func rawBody(b []byte) *body {
	return &body{raw: b}
}

// request is the single primitive every endpoint funnels into. It checks
// token expiry (refreshing if allowed), injects the bearer token, encodes
// the query and body, dispatches the request and decodes the response
// into result.
//
// endpoint is a path relative to the API base URL, or an absolute URL
// (used by pagination, which follows the URLs Spotify returns).
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, b *body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// Copy what's needed out of the lock; it must not be held across
	// the network call.
	c.mu.RLock()
	if c.token == nil {
		c.mu.RUnlock()
		return ErrNotAuthenticated
	}
	expired := c.token.IsExpired()
	secret := c.token.AccessToken
	c.mu.RUnlock()

	if expired {
		if !c.autoRefresh {
			c.logger.Debug().Msg("the access token has expired and auto-refresh is disabled")
			return ErrExpiredToken
		}

		c.logger.Info().Msg("the access token has expired, refreshing")
		if err := c.ExchangeRefreshToken(ctx); err != nil {
			// Never fall through to the stale token.
			return err
		}

		c.mu.RLock()
		secret = c.token.AccessToken
		c.mu.RUnlock()
	}

	reqURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		reqURL = c.baseURL + endpoint
	}
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader = http.NoBody
	contentType := ""
	switch {
	case b == nil:
	case b.json != nil:
		payload, err := json.Marshal(b.json)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
		contentType = "application/json"
	default:
		reqBody = bytes.NewReader(b.raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if b == nil {
		// Spotify wants an explicit Content-Length for some bodyless
		// PUT endpoints (e.g. PUT /me/audiobooks); without it the
		// error comes back as HTML instead of JSON.
		req.ContentLength = 0
	}

	c.logger.Debug().Str("method", method).Str("url", reqURL).Msg("Spotify API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, data)
	}

	return c.decodeResponse(data, result)
}

// decodeResponse decodes a successful response body into result. When
// JSON decoding fails and the target is the Nil sentinel, the body is
// accepted as-is: some successful responses are empty or non-JSON, and
// those decode to "no content" rather than failing.
func (c *Client) decodeResponse(data []byte, result any) error {
	if result == nil {
		result = &Nil{}
	}

	err := json.Unmarshal(data, result)
	if err == nil {
		return nil
	}
	if _, ok := result.(*Nil); ok {
		return nil
	}

	if !utf8.Valid(data) {
		return ErrInvalidResponse
	}

	c.logger.Error().Str("body", string(data)).Msg("failed to deserialize the response body")
	return &DeserializationError{Err: err, Body: string(data)}
}

// apiError parses Spotify's documented error envelope. If the envelope
// itself cannot be parsed, the parse failure is surfaced instead.
func apiError(status int, data []byte) error {
	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return &DeserializationError{Err: err, Body: string(data)}
	}

	apiErr := &APIError{
		Status:  envelope.Error.Status,
		Message: envelope.Error.Message,
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return apiErr
}

// get sends a GET request with optional query parameters.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, result any) error {
	return c.request(ctx, http.MethodGet, endpoint, query, nil, result)
}

// post sends a POST request with an optional body.
func (c *Client) post(ctx context.Context, endpoint string, query url.Values, b *body, result any) error {
	return c.request(ctx, http.MethodPost, endpoint, query, b, result)
}

// put sends a PUT request with an optional body.
func (c *Client) put(ctx context.Context, endpoint string, query url.Values, b *body, result any) error {
	return c.request(ctx, http.MethodPut, endpoint, query, b, result)
}

// delete sends a DELETE request with an optional body.
func (c *Client) delete(ctx context.Context, endpoint string, query url.Values, b *body, result any) error {
	return c.request(ctx, http.MethodDelete, endpoint, query, b, result)
}

// RequestOption sets an optional query parameter on an endpoint call.
// Unset parameters are omitted from the query string entirely.
type RequestOption func(url.Values)

// Market restricts the response to content available in the given
// ISO 3166-1 alpha-2 market.
func Market(code string) RequestOption {
	return func(q url.Values) {
		q.Set("market", code)
	}
}

// Limit caps the number of items returned (endpoint-specific maximums
// apply, usually 50).
func Limit(n int) RequestOption {
	return func(q url.Values) {
		q.Set("limit", strconv.Itoa(n))
	}
}

// Offset sets the index of the first item to return, for paging.
func Offset(n int) RequestOption {
	return func(q url.Values) {
		q.Set("offset", strconv.Itoa(n))
	}
}

// Fields filters which fields a playlist response includes, using
// Spotify's fields syntax.
func Fields(fields string) RequestOption {
	return func(q url.Values) {
		q.Set("fields", fields)
	}
}

// Locale sets the desired language for localisable content, e.g. "sv_SE".
func Locale(locale string) RequestOption {
	return func(q url.Values) {
		q.Set("locale", locale)
	}
}

// queryOf collects options into url.Values. Lists are joined into a
// single comma-separated value where endpoints need it, which is the
// Spotify convention rather than repeated keys.
func queryOf(opts ...RequestOption) url.Values {
	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// joinIDs renders an ID list the way Spotify expects it in a query
// parameter: one comma-separated string.
func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}
