package usecase_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/usecase"
)

func TestCorrelateResults_MatchedAndClean(t *testing.T) {
	t.Parallel()

	records := []entity.URLRecord{
		{URL: "http://x.com", DiscoverTime: "t1", PulledTime: "p1"},
		{URL: "http://y.com", DiscoverTime: "t2", PulledTime: "p1"},
	}
	payload := json.RawMessage(`{"threatType":"SOCIAL_ENGINEERING","threat":{"url":"http://x.com"}}`)
	results := []entity.MatchResult{
		{URL: "http://x.com", Label: entity.LabelMatched, MatchPayload: payload, RequestTime: "r1"},
		{URL: "http://y.com", Label: entity.LabelClean, MatchPayload: entity.EmptyMatchPayload, RequestTime: "r1"},
	}

	rows := usecase.CorrelateResults(records, results)
	require.Len(t, rows, 2)

	assert.Equal(t, entity.LedgerRow{
		URL:          "http://x.com",
		MatchPayload: string(payload),
		DiscoverTime: "t1",
		PulledTime:   "p1",
		RequestTime:  "r1",
		Label:        "0",
	}, rows[0])

	assert.Equal(t, "{}", rows[1].MatchPayload)
	assert.Equal(t, "1", rows[1].Label)
}

func TestCorrelateResults_MissingResultKeepsOrigin(t *testing.T) {
	t.Parallel()

	records := []entity.URLRecord{
		{URL: "http://orphan.com", DiscoverTime: "t1", PulledTime: "p1"},
	}

	rows := usecase.CorrelateResults(records, nil)
	require.Len(t, rows, 1, "a record without a result must not be dropped")

	assert.Equal(t, "http://orphan.com", rows[0].URL)
	assert.Equal(t, "t1", rows[0].DiscoverTime)
	assert.Equal(t, "p1", rows[0].PulledTime)
	assert.Empty(t, rows[0].MatchPayload)
	assert.Empty(t, rows[0].RequestTime)
	assert.Empty(t, rows[0].Label)
}

func TestCorrelateResults_JoinIsNormalized(t *testing.T) {
	t.Parallel()

	records := []entity.URLRecord{
		{URL: "  http://a.com/%7Euser  ", DiscoverTime: "t1"},
	}
	results := []entity.MatchResult{
		{URL: "http://a.com/~user", Label: entity.LabelClean, MatchPayload: entity.EmptyMatchPayload, RequestTime: "r1"},
	}

	rows := usecase.CorrelateResults(records, results)
	require.Len(t, rows, 1)
	assert.Equal(t, "http://a.com/~user", rows[0].URL)
	assert.Equal(t, "1", rows[0].Label)
}

func TestCorrelateResults_DuplicateURLSharesFirstResult(t *testing.T) {
	t.Parallel()

	records := []entity.URLRecord{
		{URL: "http://dup.com", DiscoverTime: "t1"},
		{URL: "http://dup.com", DiscoverTime: "t2"},
	}
	results := []entity.MatchResult{
		{URL: "http://dup.com", Label: entity.LabelMatched, MatchPayload: json.RawMessage(`{"first":true}`), RequestTime: "r1"},
		{URL: "http://dup.com", Label: entity.LabelClean, MatchPayload: entity.EmptyMatchPayload, RequestTime: "r2"},
	}

	rows := usecase.CorrelateResults(records, results)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, `{"first":true}`, row.MatchPayload)
		assert.Equal(t, "r1", row.RequestTime)
	}
}
