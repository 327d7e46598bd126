package repository

import "context"

// FeedLogRepository defines the interface for the optional discovery log:
// an append-only copy of every feed row the differ flagged as new, kept in
// the feed's own schema.
type FeedLogRepository interface {
	// AppendRows appends rows aligned to the given columns. When the log
	// already exists its stored header dictates the column order.
	AppendRows(ctx context.Context, columns []string, rows [][]string) error
}
