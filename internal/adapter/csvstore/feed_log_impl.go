package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/blacklist-service/internal/repository"
)

// FeedLogRepoImpl appends newly discovered feed rows to a CSV file in the
// feed's own schema. When the file already exists its stored header
// dictates the column order, so upstream column reordering does not
// corrupt the log.
type FeedLogRepoImpl struct {
	path string
}

// NewFeedLogRepo creates a discovery log at the given file path.
func NewFeedLogRepo(path string) *FeedLogRepoImpl {
	return &FeedLogRepoImpl{path: path}
}

// AppendRows appends rows aligned to columns, writing a header only when
// the file is new or empty.
func (r *FeedLogRepoImpl) AppendRows(ctx context.Context, columns []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	header, err := r.existingHeader()
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnwritable, err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", repository.ErrStoreUnwritable, r.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header == nil {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("%w: write header: %v", repository.ErrStoreUnwritable, err)
		}
		header = columns
	}

	// Map input columns onto the stored header order; columns the log does
	// not know stay out, columns the rows do not carry come out empty.
	idx := make([]int, len(header))
	for i, name := range header {
		idx[i] = -1
		for j, col := range columns {
			if col == name {
				idx[i] = j
				break
			}
		}
	}

	out := make([]string, len(header))
	for _, row := range rows {
		for i, j := range idx {
			out[i] = ""
			if j >= 0 && j < len(row) {
				out[i] = row[j]
			}
		}
		if err := w.Write(out); err != nil {
			return fmt.Errorf("%w: write row: %v", repository.ErrStoreUnwritable, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", repository.ErrStoreUnwritable, r.path, err)
	}
	return nil
}

// existingHeader returns the stored header, or nil when the log does not
// exist yet or is empty.
func (r *FeedLogRepoImpl) existingHeader() ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return header, nil
}
