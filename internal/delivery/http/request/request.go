package request

// IngestRecord is one discovered URL with its origin metadata. The ingest
// endpoint accepts a JSON array of these.
type IngestRecord struct {
	URL          string `json:"url"`
	DiscoverTime string `json:"discover_time"`
	PulledTime   string `json:"pulled_time"`
}
