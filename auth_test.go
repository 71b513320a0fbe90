package spotify

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_ComputesExpiry(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token := NewToken("AT", "RT", createdAt, 3600, nil)

	assert.Equal(t, createdAt.Add(time.Hour), token.ExpiresAt)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "AT", token.Secret())
	assert.Equal(t, "RT", token.RefreshSecret())
}

func TestNewToken_ClampsExpiryOnOverflow(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Absurd lifetimes must clamp instead of wrapping around.
	token := NewToken("AT", "", createdAt, math.MaxInt64, nil)

	assert.True(t, token.ExpiresAt.After(createdAt.AddDate(100, 0, 0)),
		"clamped expiry should still be far in the future")

	// Negative lifetimes are treated as already expired.
	token = NewToken("AT", "", createdAt, -1, nil)
	assert.Equal(t, createdAt, token.ExpiresAt)
}

func TestToken_IsExpired(t *testing.T) {
	past := NewToken("AT", "", time.Now().UTC().Add(-2*time.Hour), 3600, nil)
	assert.True(t, past.IsExpired())

	// Zero lifetime expires immediately.
	now := NewToken("AT", "", time.Now().UTC(), 0, nil)
	assert.True(t, now.IsExpired())

	future := NewToken("AT", "", time.Now().UTC(), 3600, nil)
	assert.False(t, future.IsExpired())
}

func TestToken_IsRefreshable(t *testing.T) {
	assert.True(t, NewToken("AT", "RT", time.Now().UTC(), 60, nil).IsRefreshable())
	assert.False(t, NewToken("AT", "", time.Now().UTC(), 60, nil).IsRefreshable())
}

func TestToken_SetTimestampsFromNow(t *testing.T) {
	token := NewToken("AT", "", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 3600, nil)
	require.True(t, token.IsExpired())

	token.setTimestampsFromNow()

	assert.False(t, token.IsExpired())
	assert.WithinDuration(t, time.Now().UTC(), token.CreatedAt, 5*time.Second)
	assert.Equal(t, token.CreatedAt.Add(time.Hour), token.ExpiresAt)
}

func TestToken_JSONRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := NewToken("AT", "RT", createdAt, 3600, NewScopes("user-read-email", "user-library-read"))

	data, err := json.Marshal(token)
	require.NoError(t, err)

	var restored Token
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, token.AccessToken, restored.AccessToken)
	assert.Equal(t, token.RefreshToken, restored.RefreshToken)
	assert.Equal(t, token.ExpiresIn, restored.ExpiresIn)
	assert.True(t, token.CreatedAt.Equal(restored.CreatedAt))
	// ExpiresAt is derived, never serialized; it must be recomputed.
	assert.True(t, token.ExpiresAt.Equal(restored.ExpiresAt))
	assert.Equal(t, token.Scopes, restored.Scopes)
}

func TestToken_UnmarshalDefaultsCreatedAt(t *testing.T) {
	// A token straight from the wire has no created_at.
	raw := `{"access_token":"AT","token_type":"Bearer","expires_in":3600,"scope":"user-read-email"}`

	var token Token
	require.NoError(t, json.Unmarshal([]byte(raw), &token))

	assert.WithinDuration(t, time.Now().UTC(), token.CreatedAt, 5*time.Second)
	assert.Equal(t, token.CreatedAt.Add(time.Hour), token.ExpiresAt)
	assert.False(t, token.IsExpired())
	assert.True(t, token.Scopes.Contains("user-read-email"))
}

func TestScopes_Deduplicates(t *testing.T) {
	scopes := NewScopes("user-read-email", "user-read-email", "playlist-modify-public", " ", "")

	assert.Len(t, scopes, 2)
	assert.True(t, scopes.Contains("user-read-email"))
	assert.True(t, scopes.Contains("playlist-modify-public"))
}

func TestScopes_StringIsSortedAndSpaceDelimited(t *testing.T) {
	scopes := NewScopes("user-read-email", "playlist-modify-public")

	assert.Equal(t, "playlist-modify-public user-read-email", scopes.String())
	assert.Equal(t, []string{"playlist-modify-public", "user-read-email"}, scopes.Sorted())
}

func TestScopes_JSONRoundTrip(t *testing.T) {
	scopes := NewScopes("b-scope", "a-scope")

	data, err := json.Marshal(scopes)
	require.NoError(t, err)
	assert.Equal(t, `"a-scope b-scope"`, string(data))

	var restored Scopes
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, scopes, restored)
}

func TestFlowKind_Capabilities(t *testing.T) {
	assert.True(t, flowAuthCode.refreshable())
	assert.True(t, flowAuthCodePkce.refreshable())
	assert.True(t, flowUnknown.refreshable())
	assert.False(t, flowClientCreds.refreshable())

	assert.True(t, flowAuthCode.authorised())
	assert.True(t, flowAuthCodePkce.authorised())
	assert.True(t, flowUnknown.authorised())
	assert.False(t, flowClientCreds.authorised())
}

func TestGenerateState_Unique(t *testing.T) {
	assert.NotEqual(t, generateState(), generateState())
}
