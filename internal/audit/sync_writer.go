package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

// SyncWriter records supporter sync activity into the crm.t_supporter_sync table,
// which downstream reporting reads instead of hitting ActionKit.
type SyncWriter struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSyncWriter constructs a writer against the crm.t_supporter_sync table.
func NewSyncWriter(db *pgxpool.Pool, logger *zap.Logger) *SyncWriter {
	return &SyncWriter{
		db:     db,
		logger: logger,
	}
}

const upsertSupporterQuery = `
		INSERT INTO crm.t_supporter_sync (
			s_id_supporter,
			s_id_client,
			s_email,
			s_first_name,
			s_last_name,
			s_zip,
			s_country,
			s_source,
			b_subscribed,
			s_vendor,
			dt_fetched
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (s_id_supporter, s_id_client)
		DO UPDATE SET
			s_email = EXCLUDED.s_email,
			s_first_name = EXCLUDED.s_first_name,
			s_last_name = EXCLUDED.s_last_name,
			s_zip = EXCLUDED.s_zip,
			s_country = EXCLUDED.s_country,
			s_source = EXCLUDED.s_source,
			b_subscribed = EXCLUDED.b_subscribed,
			dt_fetched = EXCLUDED.dt_fetched;
	`

// UpsertSupporter inserts or updates the sync row for a supporter record.
func (w *SyncWriter) UpsertSupporter(ctx context.Context, sup *model.Supporter) error {
	if sup == nil {
		return nil
	}

	_, err := w.db.Exec(ctx, upsertSupporterQuery,
		sup.ID,
		sup.ClientID,
		sup.Email,
		sup.FirstName,
		sup.LastName,
		sup.Zip,
		sup.Country,
		sup.Source,
		sup.Subscribed,
		sup.Venue,
		sup.FetchedAt,
	)
	if err != nil {
		w.logger.Error("audit.supporter_sync_failed",
			zap.String("supporter_id", sup.ID),
			zap.String("client", sup.ClientID),
			zap.Error(err))
		return err
	}

	w.logger.Debug("audit.supporter_synced",
		zap.String("supporter_id", sup.ID),
		zap.String("client", sup.ClientID))
	return nil
}
