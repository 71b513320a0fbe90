// Package spotify provides a typed client for the Spotify Web API.
//
// The client supports the three OAuth2 authorisation flows Spotify offers:
// the authorisation code flow, the authorisation code flow with PKCE, and
// the client credentials flow. Once authenticated, the client holds the
// bearer token, refreshes it transparently when it expires (if auto-refresh
// is enabled), and exposes one method per remote endpoint.
package spotify

import "time"

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Nil is the deserialization target for endpoints whose successful
// response carries no meaningful payload. It decodes from any response
// body, including an empty one.
type Nil struct{}
