package repository

import (
	"context"
	"errors"

	"github.com/user/blacklist-service/internal/entity"
)

// ErrQueryFailed is returned when a remote verification call fails or
// answers with a non-success status. The failing call aborts the whole
// check; there is no automatic retry and no partial-batch fallback.
var ErrQueryFailed = errors.New("blacklist query failed")

// ThreatMatcher defines the contract for the remote threat-matching
// service. Implementations partition the input into size-bounded batches
// and must return exactly one MatchResult per submitted URL, in input
// order, regardless of how many matches the service reports.
type ThreatMatcher interface {
	CheckURLs(ctx context.Context, urls []string) ([]entity.MatchResult, error)
}
