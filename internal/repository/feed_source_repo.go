package repository

import (
	"context"
	"errors"

	"github.com/user/blacklist-service/internal/entity"
)

// ErrSourceUnavailable is returned when the feed source cannot be
// refreshed or read. The poll loop skips the cycle and retries at the
// next interval.
var ErrSourceUnavailable = errors.New("feed source unavailable")

// FeedSource defines the contract for the externally maintained feed.
// How the refresh is obtained (git pull, file share, ...) is an adapter
// concern; only the resulting snapshot matters to the core.
type FeedSource interface {
	// Refresh updates the local copy of the feed to the latest upstream state.
	Refresh(ctx context.Context) error
	// Snapshot reads the current full feed as rows with a named column schema.
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
}
