package ingestclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/blacklist-service/internal/entity"
)

const (
	ingestPath     = "/api/ingest-urls"
	defaultTimeout = 10 * time.Second
)

// Client implements repository.RecordSink by forwarding discovered URL
// records to a remote blacklist server's ingest endpoint as one JSON
// array per cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an ingest client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Publish posts the records to the ingest endpoint. Any non-success
// status is an error; the caller decides whether the rows are lost.
func (c *Client) Publish(ctx context.Context, records []entity.URLRecord) error {
	if len(records) == 0 {
		return nil
	}

	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %d records: %w", len(records), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ingestPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ingest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %d records: %w", len(records), err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("ingest endpoint returned status %d for %d records", resp.StatusCode, len(records))
	}
	return nil
}
