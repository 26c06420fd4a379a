package actionkit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/audit"
	"github.com/groundswell-hq/actionkit-adapter/internal/metrics"
	"github.com/groundswell-hq/actionkit-adapter/internal/publisher"
	"github.com/groundswell-hq/actionkit-adapter/internal/store"
	"github.com/groundswell-hq/actionkit-adapter/pkg/config"
	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

// Service orchestrates ActionKit operations per tenant: credential resolution,
// record lookups with Redis caching, canonical mapping, event publishing and
// sync auditing. Clients are constructed once per credential set and reused,
// so each holds immutable credentials for its lifetime.
type Service struct {
	cfg        config.Config
	logger     *zap.Logger
	resolver   CredentialsResolver
	store      store.Store
	publisher  *publisher.Publisher
	syncWriter *audit.SyncWriter
	mapper     *Mapper
	httpClient *http.Client
	clients    sync.Map // "{domain}|{username}" → *Client
}

// NewService constructs a fully wired ActionKit adapter service.
// publisher and syncWriter may be nil; those steps are then skipped.
func NewService(
	cfg config.Config,
	logger *zap.Logger,
	resolver CredentialsResolver,
	st store.Store,
	pub *publisher.Publisher,
	syncWriter *audit.SyncWriter,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger,
		resolver:   resolver,
		store:      st,
		publisher:  pub,
		syncWriter: syncWriter,
		mapper:     NewMapper(),
	}
}

// SetHTTPClient injects the transport used for vendor calls (tests point it at
// an httptest server). Must be called before the first request.
func (s *Service) SetHTTPClient(hc *http.Client) {
	s.httpClient = hc
}

// clientFor resolves the tenant's credentials and returns the client bound to
// them, constructing it on first use.
func (s *Service) clientFor(ctx context.Context, clientID string) (*Client, error) {
	creds, err := s.resolver.Resolve(ctx, clientID)
	if err != nil {
		s.logger.Error("actionkit.resolve_credentials_failed",
			zap.String("client", clientID),
			zap.Error(err))
		return nil, fmt.Errorf("resolve credentials for %q: %w", clientID, err)
	}

	key := creds.Domain + "|" + creds.Username
	if c, ok := s.clients.Load(key); ok {
		return c.(*Client), nil
	}

	client, err := NewClient(s.logger, s.httpClient, *creds)
	if err != nil {
		return nil, err
	}
	actual, _ := s.clients.LoadOrStore(key, client)
	return actual.(*Client), nil
}

// LookupSupporter returns the canonical supporter record for a user ID,
// serving from the Redis cache when fresh.
func (s *Service) LookupSupporter(ctx context.Context, clientID string, id int64) (*model.Supporter, error) {
	idStr := strconv.FormatInt(id, 10)
	if cached, err := s.store.GetCachedSupporter(ctx, clientID, idStr); err == nil {
		metrics.IncRecordCache("hit")
		return cached, nil
	}
	metrics.IncRecordCache("miss")

	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return nil, err
	}

	rec, err := client.GetUser(ctx, id)
	if err != nil {
		s.logger.Error("actionkit.lookup_supporter_failed",
			zap.String("client", clientID),
			zap.Int64("user_id", id),
			zap.Error(err))
		return nil, err
	}

	sup := s.mapper.ToSupporter(rec, clientID)

	if err := s.store.CacheSupporter(ctx, sup, s.cfg.RecordTTL); err != nil {
		s.logger.Warn("actionkit.cache_supporter_failed",
			zap.String("client", clientID),
			zap.Error(err))
	}
	if s.syncWriter != nil {
		if err := s.syncWriter.UpsertSupporter(ctx, sup); err != nil {
			metrics.IncError("audit", "upsert_failed")
		}
	}

	s.logger.Info("actionkit.supporter_fetched",
		zap.String("client", clientID),
		zap.String("supporter_id", sup.ID),
		zap.String("email", sup.Email))
	return sup, nil
}

// ListSupporters returns one page of user records, query params passed through
// verbatim. Paging stays caller-driven.
func (s *Service) ListSupporters(ctx context.Context, clientID string, params url.Values) (*List, error) {
	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return client.ListUsers(ctx, params)
}

// CreateSupporter creates a user on ActionKit and publishes a supporter.created event.
func (s *Service) CreateSupporter(ctx context.Context, clientID string, fields Record) (*model.SupporterEvent, error) {
	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return nil, err
	}

	uri, err := client.CreateUser(ctx, fields)
	if err != nil {
		s.logger.Error("actionkit.create_supporter_failed",
			zap.String("client", clientID),
			zap.Error(err))
		return nil, err
	}

	ev := &model.SupporterEvent{
		ClientID:    clientID,
		SupporterID: IDFromURI(uri),
		ResourceURI: uri,
		Action:      "created",
		Timestamp:   time.Now().UTC(),
	}
	s.publishEvent(ctx, clientID, ev)

	s.logger.Info("actionkit.supporter_created",
		zap.String("client", clientID),
		zap.String("resource_uri", uri))
	return ev, nil
}

// UpdateSupporter applies a partial update, busts the cached record, and
// publishes a supporter.updated event.
func (s *Service) UpdateSupporter(ctx context.Context, clientID string, id int64, fields Record) error {
	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return err
	}

	if err := client.UpdateUser(ctx, id, fields); err != nil {
		s.logger.Error("actionkit.update_supporter_failed",
			zap.String("client", clientID),
			zap.Int64("user_id", id),
			zap.Error(err))
		return err
	}

	idStr := strconv.FormatInt(id, 10)
	if err := s.store.BustSupporter(ctx, clientID, idStr); err != nil {
		s.logger.Warn("actionkit.bust_supporter_failed",
			zap.String("client", clientID),
			zap.Error(err))
	}

	s.publishEvent(ctx, clientID, &model.SupporterEvent{
		ClientID:    clientID,
		SupporterID: idStr,
		Action:      "updated",
		Timestamp:   time.Now().UTC(),
	})
	return nil
}

// GetDonation returns the canonical donation for an order ID.
func (s *Service) GetDonation(ctx context.Context, clientID string, id int64) (*model.Donation, error) {
	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return nil, err
	}

	rec, err := client.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToDonation(rec, clientID)
}

// PushAction records a generic action against a page, returning the created
// resource URI.
func (s *Service) PushAction(ctx context.Context, clientID string, fields Record) (string, error) {
	client, err := s.clientFor(ctx, clientID)
	if err != nil {
		return "", err
	}
	return client.CreateAction(ctx, fields)
}

// HealthCheck verifies the backing store.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

func (s *Service) publishEvent(ctx context.Context, clientID string, ev *model.SupporterEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSupporterEvent(ctx, clientID, ev); err != nil {
		s.logger.Warn("actionkit.publish_event_failed",
			zap.String("client", clientID),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}
