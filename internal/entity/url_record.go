package entity

// URLRecord is the normalized form of a feed row for query purposes.
// PulledTime is assigned once per poll cycle and shared by every row
// discovered in that cycle. The JSON tags are the wire format of the
// ingest endpoint.
type URLRecord struct {
	URL          string `json:"url"`
	DiscoverTime string `json:"discover_time"`
	PulledTime   string `json:"pulled_time"`
}
