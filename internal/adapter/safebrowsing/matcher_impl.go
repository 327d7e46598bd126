package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
	"github.com/user/blacklist-service/pkg/metrics"
)

const (
	// DefaultEndpoint is the Google Safe Browsing v4 threat match API.
	DefaultEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"
	// MaxBatchSize is the API's documented limit of threat entries per request.
	MaxBatchSize = 500

	defaultClientID      = "Blacklist-Server"
	defaultClientVersion = "1.0.0"
	defaultTimeout       = 30 * time.Second
)

// The deployment's fixed category scope, enumerated once, not per call.
var (
	threatTypes = []string{
		"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE",
		"POTENTIALLY_HARMFUL_APPLICATION", "THREAT_TYPE_UNSPECIFIED",
	}
	platformTypes    = []string{"ANY_PLATFORM"}
	threatEntryTypes = []string{"URL"}
)

// Config carries the fixed client identity and endpoint parameters.
// Zero values fall back to the deployment defaults above.
type Config struct {
	APIKey        string
	Endpoint      string
	ClientID      string
	ClientVersion string
	Timeout       time.Duration
	BatchSize     int
}

// Matcher implements repository.ThreatMatcher against the Google Safe
// Browsing v4 blacklist.
type Matcher struct {
	queryURL      string
	clientID      string
	clientVersion string
	batchSize     int
	httpClient    *http.Client
}

// NewMatcher creates a new blacklist matcher for the given configuration.
func NewMatcher(cfg Config) *Matcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.ClientID == "" {
		cfg.ClientID = defaultClientID
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = defaultClientVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	return &Matcher{
		queryURL:      cfg.Endpoint + "?key=" + url.QueryEscape(cfg.APIKey),
		clientID:      cfg.ClientID,
		clientVersion: cfg.ClientVersion,
		batchSize:     cfg.BatchSize,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type findRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

// findResponse keeps match objects raw so the first match per URL can be
// persisted verbatim.
type findResponse struct {
	Matches []json.RawMessage `json:"matches"`
}

type matchThreat struct {
	Threat threatEntry `json:"threat"`
}

// Partition splits urls into consecutive batches of at most size,
// preserving order. The concatenation of the batches reproduces the input.
func Partition(urls []string, size int) [][]string {
	if size <= 0 || len(urls) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := start + size
		if end > len(urls) {
			end = len(urls)
		}
		batches = append(batches, urls[start:end])
	}
	return batches
}

// CheckURLs submits the urls in batches and returns exactly one result per
// submitted URL, in input order. The first failing batch aborts the whole
// call; earlier batch results are discarded by the error return.
func (m *Matcher) CheckURLs(ctx context.Context, urls []string) ([]entity.MatchResult, error) {
	results := make([]entity.MatchResult, 0, len(urls))
	for i, batch := range Partition(urls, m.batchSize) {
		batchResults, err := m.checkBatch(ctx, batch)
		if err != nil {
			metrics.ThreatBatchesTotal.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("batch %d (%d urls): %w", i, len(batch), err)
		}
		metrics.ThreatBatchesTotal.WithLabelValues("success").Inc()
		results = append(results, batchResults...)
	}
	return results, nil
}

func (m *Matcher) checkBatch(ctx context.Context, batch []string) ([]entity.MatchResult, error) {
	entries := make([]threatEntry, len(batch))
	for i, u := range batch {
		entries[i] = threatEntry{URL: u}
	}
	body, err := json.Marshal(findRequest{
		Client: clientInfo{ClientID: m.clientID, ClientVersion: m.clientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      threatTypes,
			PlatformTypes:    platformTypes,
			ThreatEntryTypes: threatEntryTypes,
			ThreatEntries:    entries,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", repository.ErrQueryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.queryURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", repository.ErrQueryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Every result of the batch carries the submission moment.
	requestTime := entity.Timestamp(time.Now())

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	metrics.ThreatBatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d", repository.ErrQueryFailed, resp.StatusCode)
	}

	var parsed findResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", repository.ErrQueryFailed, err)
	}

	// First match per URL wins, in response array order.
	firstMatch := make(map[string]json.RawMessage)
	for _, raw := range parsed.Matches {
		var mt matchThreat
		if err := json.Unmarshal(raw, &mt); err != nil || mt.Threat.URL == "" {
			continue
		}
		if _, seen := firstMatch[mt.Threat.URL]; !seen {
			firstMatch[mt.Threat.URL] = raw
		}
	}

	results := make([]entity.MatchResult, 0, len(batch))
	for _, u := range batch {
		res := entity.MatchResult{
			URL:          u,
			Label:        entity.LabelClean,
			MatchPayload: entity.EmptyMatchPayload,
			RequestTime:  requestTime,
		}
		if raw, ok := firstMatch[u]; ok {
			res.Label = entity.LabelMatched
			res.MatchPayload = raw
		}
		results = append(results, res)
	}
	return results, nil
}
