package spotify

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
)

var (
	// ErrNotAuthenticated is returned when an operation that needs a
	// token runs before the client has been authenticated.
	ErrNotAuthenticated = errors.New("the client has not been authenticated")

	// ErrExpiredToken is returned when the access token has expired and
	// auto-refresh is disabled. No request is sent.
	ErrExpiredToken = errors.New("the access token has expired and auto-refresh is disabled")

	// ErrInvalidStateParameter is returned when the state parameter from
	// the authorisation redirect does not match the one the client
	// generated. See RFC 6749 §10.12.
	ErrInvalidStateParameter = errors.New("the supplied state parameter does not match the one sent to the authorisation server")

	// ErrRefreshUnavailable is returned when a refresh is attempted but
	// the flow does not support refreshing or no refresh token is held.
	ErrRefreshUnavailable = errors.New("token refresh is not available for this client")

	// ErrInvalidClientState is returned when the client's PKCE verifier
	// is missing during authentication. The verifier is single-use, so
	// this indicates Authenticate was called twice.
	ErrInvalidClientState = errors.New("internal error: the client's PKCE verifier was missing when authenticating")

	// ErrUserAuthRequired is returned when an endpoint that accesses
	// user data is called on a client whose flow cannot grant user
	// authorisation (the client credentials flow).
	ErrUserAuthRequired = errors.New("this endpoint requires user authorisation, which the client's flow cannot grant")

	// ErrInvalidResponse is returned when a response body is not valid
	// UTF-8.
	ErrInvalidResponse = errors.New("the response body is not valid UTF-8")

	// ErrNoRemainingPages is returned when paging past the first or last
	// page of a paginated result.
	ErrNoRemainingPages = errors.New("there are no remaining pages")
)

// APIError is an error returned by the Spotify API itself, parsed from
// its documented error envelope.
type APIError struct {
	// Status is the HTTP status code of the error.
	Status int `json:"status"`
	// Message describes the error, as returned by Spotify.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error: %s (status: %d)", e.Message, e.Status)
}

// AuthErrorKind classifies what went wrong during a token exchange.
type AuthErrorKind int

const (
	// AuthErrorServerRejected means the authorisation server rejected
	// the request with a standard OAuth2 error code.
	AuthErrorServerRejected AuthErrorKind = iota
	// AuthErrorTransport means the token endpoint could not be reached.
	AuthErrorTransport
	// AuthErrorParse means the token endpoint's response could not be
	// parsed.
	AuthErrorParse
	// AuthErrorUnknown covers everything else.
	AuthErrorUnknown
)

// AuthError wraps a failure during the OAuth2 token exchange, refresh
// included.
type AuthError struct {
	Kind        AuthErrorKind
	Description string
	Err         error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Description)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// newAuthError classifies an error from the OAuth2 library.
func newAuthError(err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			return &AuthError{
				Kind:        AuthErrorServerRejected,
				Description: oauthErrorReason(retrieveErr.ErrorCode, retrieveErr.ErrorDescription),
				Err:         err,
			}
		}
		return &AuthError{
			Kind:        AuthErrorParse,
			Description: "the token endpoint returned a response that could not be parsed",
			Err:         err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &AuthError{
			Kind:        AuthErrorTransport,
			Description: "the token endpoint could not be reached: " + urlErr.Error(),
			Err:         err,
		}
	}

	return &AuthError{
		Kind:        AuthErrorUnknown,
		Description: err.Error(),
		Err:         err,
	}
}

// oauthErrorReason maps the standard OAuth2 error codes (RFC 6749 §5.2)
// to human-readable reasons. Extension codes pass through as-is.
func oauthErrorReason(code, description string) string {
	var reason string
	switch code {
	case "invalid_client":
		reason = "client authentication failed"
	case "invalid_grant":
		reason = "the provided authorisation grant or refresh token is invalid, expired or revoked"
	case "invalid_request":
		reason = "the request is missing a parameter or is otherwise malformed"
	case "invalid_scope":
		reason = "the requested scope is invalid, unknown or malformed"
	case "unauthorized_client":
		reason = "the client is not authorised to use this grant type"
	case "unsupported_grant_type":
		reason = "the grant type is not supported by the authorisation server"
	default:
		reason = code
	}
	if description != "" {
		reason += ": " + description
	}
	return reason
}

// DeserializationError is returned when a response body could not be
// decoded into the expected type. The raw body is kept for diagnostics.
type DeserializationError struct {
	Err  error
	Body string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize the response body: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
