package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
	pkgsecrets "github.com/groundswell-hq/actionkit-adapter/pkg/secrets"
)

// ActionKitResolver resolves per-client ActionKit credentials from AWS Secrets
// Manager. It is a thin wrapper over the generic AWSResolver[actionkit.Credentials].
//
// Secret naming convention: {env}/{clientID}/actionkit
// Secret JSON format:       {"domain": "act.example.org", "username": "...", "password": "..."}
type ActionKitResolver struct {
	inner *AWSResolver[actionkit.Credentials]
}

// NewActionKitResolver constructs an ActionKit credential resolver using AWS
// Secrets Manager and a local TTL cache.
func NewActionKitResolver(
	logger *zap.Logger,
	env string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[actionkit.Credentials],
) *ActionKitResolver {
	return &ActionKitResolver{
		inner: NewAWSResolver(logger, env, "actionkit", provider, cache),
	}
}

// Resolve fetches or caches the Credentials for a given client ID.
func (r *ActionKitResolver) Resolve(ctx context.Context, clientID string) (*actionkit.Credentials, error) {
	creds, err := r.inner.Resolve(ctx, clientID, parseActionKitCredentials)
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// DiscoverClients lists all client IDs that have ActionKit secrets configured.
func (r *ActionKitResolver) DiscoverClients(ctx context.Context) ([]string, error) {
	return r.inner.DiscoverClients(ctx)
}

// parseActionKitCredentials extracts Credentials from the raw AWS secret map.
func parseActionKitCredentials(m map[string]string) (actionkit.Credentials, error) {
	creds := actionkit.Credentials{
		Domain:   m["domain"],
		Username: m["username"],
		Password: m["password"],
	}
	if creds.Domain == "" {
		return actionkit.Credentials{}, fmt.Errorf("missing required field 'domain'")
	}
	if creds.Username == "" {
		return actionkit.Credentials{}, fmt.Errorf("missing required field 'username'")
	}
	if creds.Password == "" {
		return actionkit.Credentials{}, fmt.Errorf("missing required field 'password'")
	}
	return creds, nil
}
