package secrets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
	pkgsecrets "github.com/groundswell-hq/actionkit-adapter/pkg/secrets"
)

// fakeProvider is an in-memory secrets.Provider for tests.
type fakeProvider struct {
	secrets map[string]map[string]string
	calls   int
}

func (f *fakeProvider) GetSecret(ctx context.Context, key string) (map[string]string, error) {
	f.calls++
	if s, ok := f.secrets[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("secret not found: %s", key)
}

func (f *fakeProvider) ListSecrets(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range f.secrets {
		names = append(names, name)
	}
	return names, nil
}

func newActionKitResolver(provider *fakeProvider) *ActionKitResolver {
	cache := pkgsecrets.NewCache[actionkit.Credentials](time.Minute)
	return NewActionKitResolver(zap.NewNop(), "dev", provider, cache)
}

func TestActionKitResolver_Resolve(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"dev/acme/actionkit": {
			"domain":   "act.acme.org",
			"username": "api",
			"password": "s3cret",
		},
	}}
	resolver := newActionKitResolver(provider)

	creds, err := resolver.Resolve(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, "act.acme.org", creds.Domain)
	assert.Equal(t, "api", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)
}

func TestActionKitResolver_CachesSecondLookup(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"dev/acme/actionkit": {
			"domain":   "act.acme.org",
			"username": "api",
			"password": "s3cret",
		},
	}}
	resolver := newActionKitResolver(provider)

	_, err := resolver.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestActionKitResolver_MissingField(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"dev/acme/actionkit": {
			"domain":   "act.acme.org",
			"username": "api",
			// no password
		},
	}}
	resolver := newActionKitResolver(provider)

	_, err := resolver.Resolve(context.Background(), "acme")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestActionKitResolver_UnknownClient(t *testing.T) {
	resolver := newActionKitResolver(&fakeProvider{secrets: map[string]map[string]string{}})

	_, err := resolver.Resolve(context.Background(), "nobody")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestActionKitResolver_DiscoverClients(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"dev/acme/actionkit":   {"domain": "a", "username": "b", "password": "c"},
		"dev/globex/actionkit": {"domain": "a", "username": "b", "password": "c"},
		"dev/acme/othervendor": {"domain": "a"},
	}}
	resolver := newActionKitResolver(provider)

	clients, err := resolver.DiscoverClients(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme", "globex"}, clients)
}
