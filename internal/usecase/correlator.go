package usecase

import (
	"strconv"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/pkg/utils"
)

// CorrelateResults left-joins match results onto the URL records they were
// produced for, by normalized URL (case-preserving exact match). Every
// record yields exactly one ledger row: a record without a result keeps
// its origin metadata and gets empty payload, label and request time, so
// the fact of discovery is never lost. When the same URL was queried more
// than once the first result wins.
func CorrelateResults(records []entity.URLRecord, results []entity.MatchResult) []entity.LedgerRow {
	byURL := make(map[string]entity.MatchResult, len(results))
	for _, res := range results {
		key := utils.NormalizeURL(res.URL)
		if _, seen := byURL[key]; !seen {
			byURL[key] = res
		}
	}

	rows := make([]entity.LedgerRow, 0, len(records))
	for _, rec := range records {
		url := utils.NormalizeURL(rec.URL)
		row := entity.LedgerRow{
			URL:          url,
			DiscoverTime: rec.DiscoverTime,
			PulledTime:   rec.PulledTime,
		}
		if res, ok := byURL[url]; ok {
			row.MatchPayload = string(res.MatchPayload)
			row.RequestTime = res.RequestTime
			row.Label = strconv.Itoa(res.Label)
		}
		rows = append(rows, row)
	}
	return rows
}
