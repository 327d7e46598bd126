package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
)

// LedgerRepoImpl provides the authoritative LedgerRepository
// implementation: an append-only CSV file. The column header is written
// exactly once, when the file is created or still empty; existing rows
// are never rewritten or reordered. Single-writer is assumed.
type LedgerRepoImpl struct {
	path string
}

// NewLedgerRepo creates a ledger store at the given file path. The file
// is created lazily on first append.
func NewLedgerRepo(path string) *LedgerRepoImpl {
	return &LedgerRepoImpl{path: path}
}

// Name identifies the store in logs and metrics.
func (r *LedgerRepoImpl) Name() string { return "csv" }

// Append writes the rows to the end of the ledger file.
func (r *LedgerRepoImpl) Append(ctx context.Context, rows []entity.LedgerRow) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", repository.ErrStoreUnwritable, r.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", repository.ErrStoreUnwritable, r.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(entity.LedgerColumns); err != nil {
			return fmt.Errorf("%w: write header: %v", repository.ErrStoreUnwritable, err)
		}
	}
	for i := range rows {
		if err := w.Write(rows[i].Fields()); err != nil {
			return fmt.Errorf("%w: write row: %v", repository.ErrStoreUnwritable, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", repository.ErrStoreUnwritable, r.path, err)
	}
	return nil
}
