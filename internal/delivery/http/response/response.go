package response

// IngestURLsResponse reports how many URLs were checked and persisted.
type IngestURLsResponse struct {
	OK      bool `json:"ok"`
	Checked int  `json:"checked"`
}
