package entity

// LedgerColumns is the fixed column order of the durable ledger.
var LedgerColumns = []string{
	"url", "match_payload", "discover_time", "pulled_time", "request_time", "label",
}

// LedgerRow is the persisted reconciliation of a URLRecord and its
// MatchResult. Label is carried as a string so a row whose verification
// result is missing can be written with empty fields instead of being
// dropped.
type LedgerRow struct {
	URL          string
	MatchPayload string
	DiscoverTime string
	PulledTime   string
	RequestTime  string
	Label        string
}

// Fields returns the row values in LedgerColumns order.
func (r *LedgerRow) Fields() []string {
	return []string{
		r.URL, r.MatchPayload, r.DiscoverTime, r.PulledTime, r.RequestTime, r.Label,
	}
}
