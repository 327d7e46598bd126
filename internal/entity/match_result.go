package entity

import "encoding/json"

const (
	// LabelMatched marks a URL with at least one blacklist match.
	LabelMatched = 0
	// LabelClean marks a URL the blacklist reported no match for.
	LabelClean = 1
)

// EmptyMatchPayload is the payload recorded for URLs without a match.
var EmptyMatchPayload = json.RawMessage("{}")

// MatchResult is the per-URL outcome of one blacklist batch query.
// MatchPayload holds the verbatim first match object from the response,
// or an empty object when the URL was not matched. RequestTime is shared
// by every result of the same batch.
type MatchResult struct {
	URL          string
	Label        int
	MatchPayload json.RawMessage
	RequestTime  string
}
