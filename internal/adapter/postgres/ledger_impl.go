package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/blacklist-service/internal/entity"
)

// LedgerRepoImpl mirrors ledger rows into a `blacklist_ledger` PostgreSQL
// table for querying. The CSV store stays authoritative; this mirror is
// append-only as well.
type LedgerRepoImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepo creates a new instance of LedgerRepoImpl.
func NewLedgerRepo(db *pgxpool.Pool) *LedgerRepoImpl {
	return &LedgerRepoImpl{db: db}
}

// Name identifies the store in logs and metrics.
func (r *LedgerRepoImpl) Name() string { return "postgres" }

// EnsureSchema creates the ledger table when it does not exist yet.
// match_payload and label are TEXT so rows whose verification result is
// missing can be stored with empty fields, matching the CSV layout.
func (r *LedgerRepoImpl) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS blacklist_ledger (
			id            BIGSERIAL PRIMARY KEY,
			url           TEXT NOT NULL,
			match_payload TEXT NOT NULL DEFAULT '',
			discover_time TEXT NOT NULL DEFAULT '',
			pulled_time   TEXT NOT NULL DEFAULT '',
			request_time  TEXT NOT NULL DEFAULT '',
			label         TEXT NOT NULL DEFAULT ''
		);
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

// Append inserts the rows. No upsert: the ledger never rewrites what it
// has already recorded.
func (r *LedgerRepoImpl) Append(ctx context.Context, rows []entity.LedgerRow) error {
	query := `
		INSERT INTO blacklist_ledger (url, match_payload, discover_time, pulled_time, request_time, label)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for i := range rows {
		row := &rows[i]
		_, err := r.db.Exec(ctx, query,
			row.URL,
			row.MatchPayload,
			row.DiscoverTime,
			row.PulledTime,
			row.RequestTime,
			row.Label,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
