package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/blacklist-service/internal/delivery/http/handler"
	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
)

type fakeBlacklist struct {
	gotRecords []entity.URLRecord
	checked    int
	err        error
}

func (f *fakeBlacklist) ProcessRecords(ctx context.Context, records []entity.URLRecord) (int, error) {
	f.gotRecords = records
	if f.err != nil {
		return 0, f.err
	}
	return f.checked, nil
}

func postIngest(t *testing.T, h *handler.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest-urls", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleIngestURLs(rec, req)
	return rec
}

func TestHandleIngestURLs_Success(t *testing.T) {
	uc := &fakeBlacklist{checked: 2}
	h := handler.NewHandler(uc)

	body := `[
		{"url":"http://a.com","discover_time":"01/01/24 10:00:00","pulled_time":"01/01/24 10:05:00"},
		{"url":"http://b.com","discover_time":"01/01/24 10:01:00","pulled_time":"01/01/24 10:05:00"}
	]`
	rec := postIngest(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"checked":2}`, rec.Body.String())
	require.Len(t, uc.gotRecords, 2)
	assert.Equal(t, "http://a.com", uc.gotRecords[0].URL)
}

func TestHandleIngestURLs_InvalidJSON(t *testing.T) {
	h := handler.NewHandler(&fakeBlacklist{})

	rec := postIngest(t, h, `{"url":"not-an-array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIngestURLs_BlankURLsDropped(t *testing.T) {
	uc := &fakeBlacklist{checked: 1}
	h := handler.NewHandler(uc)

	rec := postIngest(t, h, `[{"url":"  "},{"url":"http://a.com"}]`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, uc.gotRecords, 1)
	assert.Equal(t, "http://a.com", uc.gotRecords[0].URL)
}

func TestHandleIngestURLs_EmptyBody(t *testing.T) {
	uc := &fakeBlacklist{}
	h := handler.NewHandler(uc)

	rec := postIngest(t, h, `[]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotRecords)
}

func TestHandleIngestURLs_QueryFailure(t *testing.T) {
	h := handler.NewHandler(&fakeBlacklist{err: repository.ErrQueryFailed})

	rec := postIngest(t, h, `[{"url":"http://a.com"}]`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleIngestURLs_StoreFailure(t *testing.T) {
	h := handler.NewHandler(&fakeBlacklist{err: repository.ErrStoreUnwritable})

	rec := postIngest(t, h, `[{"url":"http://a.com"}]`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	h := handler.NewHandler(&fakeBlacklist{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
