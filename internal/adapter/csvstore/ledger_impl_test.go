package csvstore_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/blacklist-service/internal/adapter/csvstore"
	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func ledgerRow(url string) entity.LedgerRow {
	return entity.LedgerRow{
		URL:          url,
		MatchPayload: "{}",
		DiscoverTime: "t1",
		PulledTime:   "p1",
		RequestTime:  "r1",
		Label:        "1",
	}
}

func TestLedgerAppend_CreatesFileWithHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.csv")
	repo := csvstore.NewLedgerRepo(path)

	require.NoError(t, repo.Append(context.Background(), []entity.LedgerRow{ledgerRow("http://a.com")}))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, entity.LedgerColumns, records[0])
	assert.Equal(t, "http://a.com", records[1][0])
}

func TestLedgerAppend_HeaderWrittenOnceAcrossRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.csv")

	// Separate repo instances model separate process runs.
	require.NoError(t, csvstore.NewLedgerRepo(path).Append(context.Background(),
		[]entity.LedgerRow{ledgerRow("http://a.com")}))
	require.NoError(t, csvstore.NewLedgerRepo(path).Append(context.Background(),
		[]entity.LedgerRow{ledgerRow("http://b.com")}))

	records := readCSV(t, path)
	require.Len(t, records, 3)

	headers := 0
	for _, rec := range records {
		if strings.Join(rec, ",") == strings.Join(entity.LedgerColumns, ",") {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
	assert.Equal(t, "http://b.com", records[2][0], "appends never reorder existing rows")
}

func TestLedgerAppend_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, csvstore.NewLedgerRepo(path).Append(context.Background(), nil))

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist, "appending nothing must not create the store")
}

func TestLedgerAppend_UnwritableDestination(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "ledger.csv")
	err := csvstore.NewLedgerRepo(path).Append(context.Background(),
		[]entity.LedgerRow{ledgerRow("http://a.com")})
	require.ErrorIs(t, err, repository.ErrStoreUnwritable)
}

func TestFeedLog_HeaderDictatesColumnOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "evaluation-feed.csv")
	log := csvstore.NewFeedLogRepo(path)

	require.NoError(t, log.AppendRows(context.Background(),
		[]string{"url", "discover_time"},
		[][]string{{"a.com", "t1"}},
	))

	// Upstream reordered its columns; the stored header wins.
	require.NoError(t, log.AppendRows(context.Background(),
		[]string{"discover_time", "url"},
		[][]string{{"t2", "b.com"}},
	))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"url", "discover_time"}, records[0])
	assert.Equal(t, []string{"a.com", "t1"}, records[1])
	assert.Equal(t, []string{"b.com", "t2"}, records[2])
}

func TestFeedLog_MissingColumnComesOutEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "evaluation-feed.csv")
	log := csvstore.NewFeedLogRepo(path)

	require.NoError(t, log.AppendRows(context.Background(),
		[]string{"url", "discover_time"},
		[][]string{{"a.com", "t1"}},
	))
	require.NoError(t, log.AppendRows(context.Background(),
		[]string{"url"},
		[][]string{{"b.com"}},
	))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"b.com", ""}, records[2])
}
