package ingestclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/blacklist-service/internal/adapter/ingestclient"
	"github.com/user/blacklist-service/internal/entity"
)

func TestPublish_PostsRecordsAsJSONArray(t *testing.T) {
	t.Parallel()

	var (
		gotPath        string
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	records := []entity.URLRecord{
		{URL: "http://a.com", DiscoverTime: "01/01/24 10:00:00", PulledTime: "01/01/24 10:05:00"},
		{URL: "http://b.com", DiscoverTime: "01/01/24 10:01:00", PulledTime: "01/01/24 10:05:00"},
	}

	client := ingestclient.NewClient(srv.URL)
	require.NoError(t, client.Publish(context.Background(), records))

	assert.Equal(t, "/api/ingest-urls", gotPath)
	assert.Equal(t, "application/json", gotContentType)

	var decoded []entity.URLRecord
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, records, decoded)
}

func TestPublish_NonSuccessStatusIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := ingestclient.NewClient(srv.URL)
	err := client.Publish(context.Background(), []entity.URLRecord{{URL: "http://a.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPublish_EmptyRecordsSendsNothing(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := ingestclient.NewClient(srv.URL)
	require.NoError(t, client.Publish(context.Background(), nil))
	assert.Zero(t, calls.Load())
}
