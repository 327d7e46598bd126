package repository

import (
	"context"
	"errors"

	"github.com/user/blacklist-service/internal/entity"
)

// ErrStoreUnwritable is returned when the ledger destination cannot be
// opened for append. Fatal to the current cycle's rows, not to the process.
var ErrStoreUnwritable = errors.New("ledger store unwritable")

// LedgerRepository defines the interface for the durable, append-only
// record of reconciled discovery and verification outcomes. Appended rows
// are never rewritten or reordered; a column header is written exactly
// once per store lifetime.
type LedgerRepository interface {
	// Name identifies the store in logs and metrics ("csv", "postgres").
	Name() string
	Append(ctx context.Context, rows []entity.LedgerRow) error
}
