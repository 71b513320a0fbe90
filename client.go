package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/soundbridge/spotify/internal/common"
)

// Client handles authentication and dispatches every Spotify API request.
//
// A client is created unauthenticated by one of the flow constructors and
// becomes authenticated through the flow's exchange step. The token it
// holds is shared under a read/write lock, because a concurrent refresh
// may replace it while other requests are reading it. The lock is never
// held across network I/O.
type Client struct {
	// autoRefresh dictates whether the client requests a new token when
	// the current one has expired. It is checked on every request.
	autoRefresh bool

	mu    sync.RWMutex
	token *Token

	flow  authFlow
	oauth oauth2.Config

	baseURL  string
	authURL  string
	tokenURL string

	http    *http.Client
	logger  *common.Logger
	limiter *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAccountURLs sets the authorisation and token endpoint URLs. Useful
// for proxies and for tests running against a stub server.
func WithAccountURLs(authURL, tokenURL string) ClientOption {
	return func(c *Client) {
		c.authURL = authURL
		c.tokenURL = tokenURL
	}
}

// WithHTTPClient sets a custom HTTP client. The same client is used for
// API requests and token exchanges.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogLevel enables console logging at the given level. Clients are
// silent by default.
func WithLogLevel(level string) ClientOption {
	return func(c *Client) {
		c.logger = common.NewConsoleLogger(level)
	}
}

// WithLogWriter enables logging at the given level to a specific writer.
func WithLogWriter(level string, w io.Writer) ClientOption {
	return func(c *Client) {
		c.logger = common.NewLogger(level, w)
	}
}

// newClient builds a client with defaults applied, then options.
func newClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		authURL:  DefaultAuthURL,
		tokenURL: DefaultTokenURL,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewAuthCodeClient creates an unauthenticated client for the
// authorisation code flow and returns it along with the authorisation
// URL. Redirect the user to that URL; the redirect back to redirectURI
// carries the code and state parameters Authenticate needs.
//
// No network call is made at this stage.
func NewAuthCodeClient(clientID, clientSecret string, scopes Scopes, redirectURI string, autoRefresh bool, opts ...ClientOption) (*Client, string) {
	c := newClient(opts...)
	c.autoRefresh = autoRefresh
	c.oauth = oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes.Sorted(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}

	state := generateState()
	c.flow = authFlow{kind: flowAuthCode, csrfState: state}

	return c, c.oauth.AuthCodeURL(state)
}

// NewAuthCodePkceClient creates an unauthenticated client for the
// authorisation code flow with PKCE and returns it along with the
// authorisation URL. The S256 challenge is embedded in the URL and the
// verifier is retained for the exchange step, where it is consumed
// exactly once.
//
// No network call is made at this stage.
func NewAuthCodePkceClient(clientID string, scopes Scopes, redirectURI string, autoRefresh bool, opts ...ClientOption) (*Client, string) {
	c := newClient(opts...)
	c.autoRefresh = autoRefresh
	c.oauth = oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes.Sorted(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}

	state := generateState()
	verifier := oauth2.GenerateVerifier()
	c.flow = authFlow{kind: flowAuthCodePkce, csrfState: state, pkceVerifier: verifier}

	return c, c.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Authenticate exchanges the authorisation code from the redirect for a
// token, completing the authorisation code and PKCE flows.
//
// The state parameter from the redirect must match the one generated by
// the constructor; on mismatch ErrInvalidStateParameter is returned and
// no network call is made.
func (c *Client) Authenticate(ctx context.Context, code, state string) error {
	switch c.flow.kind {
	case flowAuthCode, flowAuthCodePkce:
	default:
		return ErrInvalidClientState
	}

	code = strings.TrimSpace(code)
	if strings.TrimSpace(state) != strings.TrimSpace(c.flow.csrfState) {
		return ErrInvalidStateParameter
	}

	var exchangeOpts []oauth2.AuthCodeOption
	if c.flow.kind == flowAuthCodePkce {
		verifier := c.flow.pkceVerifier
		if verifier == "" {
			// The verifier is single-use; reaching this means
			// Authenticate ran twice on the same flow.
			c.logger.Error().Msg("no PKCE code verifier present when authenticating the client")
			return ErrInvalidClientState
		}
		c.flow.pkceVerifier = ""
		exchangeOpts = append(exchangeOpts, oauth2.VerifierOption(verifier))
	}

	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code, exchangeOpts...)
	if err != nil {
		return newAuthError(err)
	}

	token := tokenFromOAuth2(tok)
	token.setTimestampsFromNow()

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.logger.Debug().Int64("expires_in", token.ExpiresIn).Msg("client authenticated")
	return nil
}

// NewClientCredsClient exchanges the client credentials for a token and
// returns an authenticated client. This flow involves no user
// interaction; the resulting client cannot refresh its token or access
// user data.
func NewClientCredsClient(ctx context.Context, clientID, clientSecret string, opts ...ClientOption) (*Client, error) {
	c := newClient(opts...)
	c.flow = authFlow{kind: flowClientCreds}
	c.oauth = oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}

	creds := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.tokenURL,
	}

	tok, err := creds.Token(c.oauthContext(ctx))
	if err != nil {
		return nil, newAuthError(err)
	}

	token := tokenFromOAuth2(tok)
	token.setTimestampsFromNow()
	c.token = token

	return c, nil
}

// FromRefreshToken mints an authenticated client directly from a
// previously obtained refresh token, with no interactive flow. The flow
// of the resulting client is unknown but treated as user-authorised,
// since only authorised flows can produce a refresh token.
func FromRefreshToken(ctx context.Context, clientID, clientSecret string, scopes Scopes, autoRefresh bool, refreshToken string, opts ...ClientOption) (*Client, error) {
	c := newClient(opts...)
	c.autoRefresh = autoRefresh
	c.flow = authFlow{kind: flowUnknown}
	c.oauth = oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes.Sorted(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}

	seed := &oauth2.Token{RefreshToken: refreshToken}
	tok, err := c.oauth.TokenSource(c.oauthContext(ctx), seed).Token()
	if err != nil {
		return nil, newAuthError(err)
	}

	token := tokenFromOAuth2(tok)
	if token.RefreshToken == "" {
		// When a refresh token is not returned, continue using the
		// existing one.
		token.RefreshToken = refreshToken
	}
	token.setTimestampsFromNow()
	c.token = token

	return c, nil
}

// FromAccessToken creates an authenticated, user-authorised client from
// a token the caller already holds, for example one restored from disk.
// A probe request is sent to verify the token; an invalid token fails
// here rather than on the first real request.
//
// Auto-refresh is demoted to false when the token carries no refresh
// secret.
func FromAccessToken(ctx context.Context, clientID, clientSecret string, autoRefresh bool, token *Token, opts ...ClientOption) (*Client, error) {
	c := newClient(opts...)
	c.flow = authFlow{kind: flowAuthCode}
	c.oauth = oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}

	if token.ExpiresAt.IsZero() {
		token.ExpiresAt = expiryTime(token.CreatedAt, token.ExpiresIn)
	}

	if err := c.probeToken(ctx, token); err != nil {
		return nil, err
	}

	c.autoRefresh = autoRefresh && token.IsRefreshable()
	c.token = token

	return c, nil
}

// probeToken sends a bogus request to check that the token is valid.
func (c *Client) probeToken(ctx context.Context, token *Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/markets", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Secret())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute probe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body)
	}
	return nil
}

// ExchangeRefreshToken trades the stored refresh token for a fresh
// access token and replaces the client's token in place.
//
// Concurrent requests that observe the same expired token each trigger
// their own refresh; refreshes are not coalesced. The lock guarantees
// atomic replacement only, and the last writer wins. Spotify tolerates
// redundant refreshes, so this race is accepted rather than hidden.
func (c *Client) ExchangeRefreshToken(ctx context.Context) error {
	if !c.flow.kind.refreshable() {
		return ErrRefreshUnavailable
	}

	c.mu.RLock()
	if c.token == nil {
		c.mu.RUnlock()
		return ErrNotAuthenticated
	}
	refreshToken := c.token.RefreshToken
	c.mu.RUnlock()

	if refreshToken == "" {
		return ErrRefreshUnavailable
	}

	seed := &oauth2.Token{RefreshToken: refreshToken}
	tok, err := c.oauth.TokenSource(c.oauthContext(ctx), seed).Token()
	if err != nil {
		return newAuthError(err)
	}

	token := tokenFromOAuth2(tok)
	if token.RefreshToken == "" {
		// When a refresh token is not returned, continue using the
		// existing one.
		token.RefreshToken = refreshToken
	}
	token.setTimestampsFromNow()

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.logger.Info().Int64("expires_in", token.ExpiresIn).Msg("access token refreshed")
	return nil
}

// Token returns a copy of the client's current token.
func (c *Client) Token() (*Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return nil, ErrNotAuthenticated
	}
	token := *c.token
	return &token, nil
}

// AccessSecret returns the current access token secret.
func (c *Client) AccessSecret() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return "", ErrNotAuthenticated
	}
	return c.token.AccessToken, nil
}

// RefreshSecret returns the current refresh token secret, or an empty
// string if the token is not refreshable.
func (c *Client) RefreshSecret() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return "", ErrNotAuthenticated
	}
	return c.token.RefreshToken, nil
}

// AutoRefresh reports whether the client refreshes its token
// automatically when it expires.
func (c *Client) AutoRefresh() bool {
	return c.autoRefresh
}

// assertAuthorised rejects, before any I/O, endpoints that need user
// authorisation on flows that cannot grant it.
func (c *Client) assertAuthorised() error {
	if !c.flow.kind.authorised() {
		return ErrUserAuthRequired
	}
	return nil
}

// oauthContext routes the OAuth2 library's token requests through the
// client's own HTTP transport.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}
