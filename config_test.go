package spotify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FromTOML(t *testing.T) {
	path := writeConfigFile(t, "spotify.toml", `
client_id = "id-from-file"
client_secret = "secret-from-file"
redirect_uri = "http://localhost:8888/callback"
scopes = ["user-read-email", "user-library-read"]
auto_refresh = false
rate_limit = 5
log_level = "debug"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "id-from-file", config.ClientID)
	assert.Equal(t, "secret-from-file", config.ClientSecret)
	assert.Equal(t, "http://localhost:8888/callback", config.RedirectURI)
	assert.False(t, config.AutoRefresh)
	assert.Equal(t, 5, config.RateLimit)
	assert.Equal(t, "debug", config.LogLevel)
	assert.True(t, config.ScopeSet().Contains("user-library-read"))
	require.NoError(t, config.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, config.AutoRefresh)
	assert.Equal(t, DefaultRateLimit, config.RateLimit)
}

func TestLoadConfig_SkipsMissingFiles(t *testing.T) {
	path := writeConfigFile(t, "spotify.toml", `client_id = "id"`)

	config, err := LoadConfig("/does/not/exist.toml", path, "")
	require.NoError(t, err)
	assert.Equal(t, "id", config.ClientID)
}

func TestLoadConfig_LaterFileOverrides(t *testing.T) {
	base := writeConfigFile(t, "base.toml", `
client_id = "base-id"
rate_limit = 5
`)
	local := writeConfigFile(t, "local.toml", `client_id = "local-id"`)

	config, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, "local-id", config.ClientID)
	assert.Equal(t, 5, config.RateLimit, "values absent from later files survive")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "spotify.toml", `
client_id = "file-id"
rate_limit = 5
`)

	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIFY_RATE_LIMIT", "7")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-id", config.ClientID)
	assert.Equal(t, "env-secret", config.ClientSecret)
	assert.Equal(t, 7, config.RateLimit)
}

func TestLoadConfig_MalformedTOML(t *testing.T) {
	path := writeConfigFile(t, "broken.toml", `client_id = [unterminated`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestConfig_ClientOptions(t *testing.T) {
	config := &Config{RateLimit: 3}
	assert.Len(t, config.ClientOptions(), 1)

	config.LogLevel = "info"
	assert.Len(t, config.ClientOptions(), 2)
}
