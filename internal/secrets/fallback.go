package secrets

import (
	"context"

	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
)

// DefaultClientID is the tenant name served by environment credentials when
// no secret exists for a client.
const DefaultClientID = "default"

// FallbackResolver resolves credentials from AWS Secrets Manager first and
// falls back to ACTION_KIT_* environment variables. This keeps single-tenant
// deployments working without any secrets configured.
type FallbackResolver struct {
	logger   *zap.Logger
	primary  *ActionKitResolver
	explicit actionkit.Credentials
}

// NewFallbackResolver wraps primary with an environment fallback. explicit
// carries any statically configured credentials; empty fields are filled from
// the environment at resolve time.
func NewFallbackResolver(logger *zap.Logger, primary *ActionKitResolver, explicit actionkit.Credentials) *FallbackResolver {
	return &FallbackResolver{
		logger:   logger,
		primary:  primary,
		explicit: explicit,
	}
}

// Resolve returns the client's credentials from Secrets Manager. Only the
// default tenant may fall back to the static/environment credentials; for any
// other client the primary error propagates, so a transient secret-store
// failure can never route a configured tenant onto the default instance.
func (r *FallbackResolver) Resolve(ctx context.Context, clientID string) (*actionkit.Credentials, error) {
	creds, err := r.primary.Resolve(ctx, clientID)
	if err == nil {
		return creds, nil
	}
	if clientID != DefaultClientID {
		return nil, err
	}

	fb, fbErr := actionkit.ResolveCredentials(r.explicit)
	if fbErr != nil {
		return nil, err
	}

	r.logger.Warn("secrets.fallback_to_env",
		zap.String("client", clientID),
		zap.Error(err))
	return &fb, nil
}

// DiscoverClients lists clients with configured secrets. When none exist but
// environment credentials are complete, the default tenant is reported.
func (r *FallbackResolver) DiscoverClients(ctx context.Context) ([]string, error) {
	clients, err := r.primary.DiscoverClients(ctx)
	if err == nil && len(clients) > 0 {
		return clients, nil
	}

	if _, fbErr := actionkit.ResolveCredentials(r.explicit); fbErr == nil {
		return []string{DefaultClientID}, nil
	}
	return clients, err
}
