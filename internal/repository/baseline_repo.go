package repository

import "context"

// BaselineRepository persists the diff baseline across process restarts:
// the canonical schema of the last observed snapshot plus the hash of
// every row seen in it. A process that reloads this at startup does not
// lose rows that arrived while it was down.
type BaselineRepository interface {
	// Replace atomically swaps the stored baseline for the given one.
	Replace(ctx context.Context, schema string, rowKeys []string) error
	// Load returns the stored baseline. An empty schema means no baseline
	// has been persisted yet.
	Load(ctx context.Context) (schema string, rowKeys map[string]struct{}, err error)
}
