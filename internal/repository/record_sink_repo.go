package repository

import (
	"context"

	"github.com/user/blacklist-service/internal/entity"
)

// RecordSink accepts the URL records discovered in one poll cycle.
// Implementations either forward them to the remote ingest endpoint or
// run the verification pipeline in-process.
type RecordSink interface {
	Publish(ctx context.Context, records []entity.URLRecord) error
}
