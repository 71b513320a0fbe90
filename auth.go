package spotify

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Token is the OAuth2 credential bundle the client holds once
// authenticated. It can be serialized and stored by the caller and fed
// back into FromAccessToken later.
type Token struct {
	// AccessToken authorises every single API request.
	AccessToken string `json:"access_token"`
	// RefreshToken is exchanged for a new access token when the current
	// one expires. Not every flow provides one.
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresIn is the token lifetime in seconds, as reported by the
	// token endpoint.
	ExpiresIn int64 `json:"expires_in"`
	// CreatedAt is the UTC time the token was issued.
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is always derived from CreatedAt and ExpiresIn, never
	// set directly.
	ExpiresAt time.Time `json:"-"`
	TokenType string    `json:"token_type"`
	Scopes    Scopes    `json:"scope,omitempty"`
}

// NewToken creates a token with a computed expiry. refreshToken may be
// empty if the flow that produced the token does not support refreshing.
func NewToken(accessToken, refreshToken string, createdAt time.Time, expiresIn int64, scopes Scopes) *Token {
	return &Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		CreatedAt:    createdAt,
		ExpiresAt:    expiryTime(createdAt, expiresIn),
		TokenType:    "Bearer",
		Scopes:       scopes,
	}
}

// Secret returns the access token secret.
func (t *Token) Secret() string {
	return t.AccessToken
}

// RefreshSecret returns the refresh token secret, or an empty string if
// the token is not refreshable.
func (t *Token) RefreshSecret() string {
	return t.RefreshToken
}

// IsExpired reports whether the access token has expired. The wall clock
// is re-read on every call.
func (t *Token) IsExpired() bool {
	return !time.Now().UTC().Before(t.ExpiresAt)
}

// IsRefreshable reports whether a refresh token is present.
func (t *Token) IsRefreshable() bool {
	return t.RefreshToken != ""
}

// setTimestampsFromNow re-stamps the token as freshly issued, so local
// expiry tracking depends only on the ExpiresIn the server reported, not
// on clock skew with the server.
func (t *Token) setTimestampsFromNow() {
	t.CreatedAt = time.Now().UTC()
	t.ExpiresAt = expiryTime(t.CreatedAt, t.ExpiresIn)
}

// UnmarshalJSON restores a serialized token and recomputes the derived
// expiry. A missing created_at defaults to the current time.
func (t *Token) UnmarshalJSON(data []byte) error {
	type alias Token
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.ExpiresAt = expiryTime(a.CreatedAt, a.ExpiresIn)
	*t = Token(a)
	return nil
}

// expiryTime computes createdAt + expiresIn seconds, clamping instead of
// overflowing for absurd lifetimes.
func expiryTime(createdAt time.Time, expiresIn int64) time.Time {
	const maxSeconds = math.MaxInt64 / int64(time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}
	if expiresIn > maxSeconds {
		expiresIn = maxSeconds
	}
	return createdAt.Add(time.Duration(expiresIn) * time.Second)
}

// tokenFromOAuth2 converts a token returned by the OAuth2 library into
// the client's own representation.
func tokenFromOAuth2(tok *oauth2.Token) *Token {
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}

	var scopes Scopes
	if s, ok := tok.Extra("scope").(string); ok && s != "" {
		scopes = NewScopes(strings.Fields(s)...)
	}

	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
		Scopes:       scopes,
	}
}

// Scopes is a set of Spotify permission scopes. Duplicates are discarded
// and order is irrelevant.
type Scopes map[string]struct{}

// NewScopes builds a scope set from the given scope strings.
func NewScopes(scopes ...string) Scopes {
	s := make(Scopes, len(scopes))
	for _, scope := range scopes {
		if scope = strings.TrimSpace(scope); scope != "" {
			s[scope] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the set includes the given scope.
func (s Scopes) Contains(scope string) bool {
	_, ok := s[scope]
	return ok
}

// Sorted returns the scopes as a sorted slice.
func (s Scopes) Sorted() []string {
	out := make([]string, 0, len(s))
	for scope := range s {
		out = append(out, scope)
	}
	sort.Strings(out)
	return out
}

// String joins the scopes with spaces, the form the OAuth2 endpoints use.
func (s Scopes) String() string {
	return strings.Join(s.Sorted(), " ")
}

// MarshalJSON writes the scopes as a single space-delimited string.
func (s Scopes) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a space-delimited scope string.
func (s *Scopes) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = NewScopes(strings.Fields(joined)...)
	return nil
}

// flowKind identifies the authorisation flow a client was built with. It
// is fixed for the lifetime of the client and gates which operations are
// available: only refreshable flows may exchange refresh tokens, and only
// user-authorised flows may touch user data.
type flowKind int

const (
	// flowAuthCode is the authorisation code flow (RFC 6749 §4.1).
	// Refreshable and authorised for user data.
	flowAuthCode flowKind = iota
	// flowAuthCodePkce is the authorisation code flow with the PKCE
	// extension (RFC 7636). Same capabilities as flowAuthCode, without
	// needing a client secret.
	flowAuthCodePkce
	// flowClientCreds is the client credentials flow (RFC 6749 §4.4).
	// Neither refreshable nor authorised for user data.
	flowClientCreds
	// flowUnknown is only produced by the refresh-token bootstrap. A
	// refresh token can only be minted by an authorised flow, so this is
	// treated as authorised.
	flowUnknown
)

func (f flowKind) refreshable() bool {
	return f != flowClientCreds
}

func (f flowKind) authorised() bool {
	return f != flowClientCreds
}

// authFlow holds the flow identity along with the CSRF state and PKCE
// verifier generated when the authorisation URL was built. The verifier
// is consumed, and cleared, by the first Authenticate call.
type authFlow struct {
	kind         flowKind
	csrfState    string
	pkceVerifier string
}

// generateState produces a fresh random state parameter for CSRF
// protection during the authorisation redirect.
func generateState() string {
	return uuid.NewString()
}
