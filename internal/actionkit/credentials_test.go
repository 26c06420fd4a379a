package actionkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvDomain, "")
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")
}

func TestResolveCredentials_AllMissing(t *testing.T) {
	clearCredentialEnv(t)

	_, err := ResolveCredentials(Credentials{})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.ElementsMatch(t, []string{"domain", "username", "password"}, cfgErr.Missing)
}

func TestResolveCredentials_EnvFallback(t *testing.T) {
	t.Setenv(EnvDomain, "act.example.org")
	t.Setenv(EnvUsername, "api")
	t.Setenv(EnvPassword, "s3cret")

	creds, err := ResolveCredentials(Credentials{})

	require.NoError(t, err)
	assert.Equal(t, "act.example.org", creds.Domain)
	assert.Equal(t, "api", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)
}

func TestResolveCredentials_ExplicitWinsOverEnv(t *testing.T) {
	t.Setenv(EnvDomain, "env.example.org")
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvPassword, "env-pass")

	creds, err := ResolveCredentials(Credentials{
		Domain:   "explicit.example.org",
		Username: "explicit-user",
		Password: "explicit-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "explicit.example.org", creds.Domain)
	assert.Equal(t, "explicit-user", creds.Username)
	assert.Equal(t, "explicit-pass", creds.Password)
}

func TestResolveCredentials_PartialFallback(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvPassword, "env-pass")

	creds, err := ResolveCredentials(Credentials{
		Domain:   "act.example.org",
		Username: "api",
	})

	require.NoError(t, err)
	assert.Equal(t, "env-pass", creds.Password)
}

func TestResolveCredentials_ReportsOnlyMissing(t *testing.T) {
	clearCredentialEnv(t)

	_, err := ResolveCredentials(Credentials{Domain: "act.example.org"})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.ElementsMatch(t, []string{"username", "password"}, cfgErr.Missing)
}

func TestBaseURL(t *testing.T) {
	bare := Credentials{Domain: "act.example.org"}
	assert.Equal(t, "https://act.example.org/rest/v1", bare.baseURL())

	withScheme := Credentials{Domain: "http://127.0.0.1:8080"}
	assert.Equal(t, "http://127.0.0.1:8080/rest/v1", withScheme.baseURL())

	trailingSlash := Credentials{Domain: "act.example.org/"}
	assert.Equal(t, "https://act.example.org/rest/v1", trailingSlash.baseURL())
}
