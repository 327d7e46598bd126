package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/pkg/utils"
)

// ErrSchemaMismatch is returned when two snapshots do not carry the same
// column set. Fatal to that cycle's diff; the poll loop continues.
var ErrSchemaMismatch = errors.New("snapshot schemas differ")

// keySeparator joins cells inside a row key. Unit separator, so values
// containing commas or tabs cannot collide.
const keySeparator = "\x1f"

// CanonicalSchema renders a column set order-independently: sorted names
// joined by the key separator.
func CanonicalSchema(columns []string) string {
	sorted := make([]string, len(columns))
	copy(sorted, columns)
	sort.Strings(sorted)
	return strings.Join(sorted, keySeparator)
}

// canonicalOrder returns the row indices in sorted-column-name order, so
// two snapshots with the same columns in different order produce equal
// row keys.
func canonicalOrder(columns []string) []int {
	order := make([]int, len(columns))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return columns[order[a]] < columns[order[b]]
	})
	return order
}

// rowKey hashes the trimmed cells of one row in canonical column order.
func rowKey(order []int, row []string) string {
	parts := make([]string, 0, len(order))
	for _, i := range order {
		cell := ""
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		parts = append(parts, cell)
	}
	return utils.HashKey(strings.Join(parts, keySeparator))
}

// SnapshotKeys returns the canonical schema of a snapshot and the full-row
// identity key of every row, in row order. Used both for diffing and for
// persisting the baseline.
func SnapshotKeys(s *entity.Snapshot) (string, []string) {
	order := canonicalOrder(s.Columns)
	keys := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		keys = append(keys, rowKey(order, row))
	}
	return CanonicalSchema(s.Columns), keys
}

// DiffSnapshots returns the rows of current that do not occur verbatim in
// previous: a set-difference anti-join keyed on the full trimmed row.
// Duplicates within previous are collapsed before comparison; duplicates
// within current are preserved, as is current's row order.
func DiffSnapshots(previous, current *entity.Snapshot) (*entity.Snapshot, error) {
	schema, keys := SnapshotKeys(previous)
	baseline := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		baseline[k] = struct{}{}
	}
	return DiffAgainstKeys(schema, baseline, current)
}

// DiffAgainstKeys diffs current against a baseline held as a canonical
// schema plus a set of row keys, the representation the durable baseline
// store uses. Returned rows are trimmed and aligned to current's columns.
func DiffAgainstKeys(schema string, baseline map[string]struct{}, current *entity.Snapshot) (*entity.Snapshot, error) {
	if CanonicalSchema(current.Columns) != schema {
		return nil, fmt.Errorf("%w: baseline %q vs current %q",
			ErrSchemaMismatch, schemaNames(schema), strings.Join(current.Columns, ","))
	}

	order := canonicalOrder(current.Columns)
	diff := &entity.Snapshot{Columns: current.Columns}
	for _, row := range current.Rows {
		if _, seen := baseline[rowKey(order, row)]; seen {
			continue
		}
		diff.Rows = append(diff.Rows, trimRow(current.Columns, row))
	}
	return diff, nil
}

func trimRow(columns, row []string) []string {
	out := make([]string, len(columns))
	for i := range columns {
		if i < len(row) {
			out[i] = strings.TrimSpace(row[i])
		}
	}
	return out
}

func schemaNames(schema string) string {
	return strings.ReplaceAll(schema, keySeparator, ",")
}
