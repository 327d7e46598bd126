package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
	"github.com/user/blacklist-service/pkg/metrics"
	"github.com/user/blacklist-service/pkg/utils"
)

// Blacklist defines the interface for the verification pipeline: check a
// set of discovered URL records against the remote blacklist and persist
// the reconciled outcome.
type Blacklist interface {
	// ProcessRecords verifies the records and appends one ledger row per
	// record. It returns the number of rows written to the primary store.
	ProcessRecords(ctx context.Context, records []entity.URLRecord) (int, error)
}

type blacklistUseCase struct {
	matcher repository.ThreatMatcher
	ledger  repository.LedgerRepository
	mirrors []repository.LedgerRepository
}

// NewBlacklist creates the verification pipeline. The first ledger is
// authoritative; mirrors receive the same rows best-effort.
func NewBlacklist(
	matcher repository.ThreatMatcher,
	ledger repository.LedgerRepository,
	mirrors ...repository.LedgerRepository,
) Blacklist {
	return &blacklistUseCase{
		matcher: matcher,
		ledger:  ledger,
		mirrors: mirrors,
	}
}

func (uc *blacklistUseCase) ProcessRecords(ctx context.Context, records []entity.URLRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	// Deduplication is deliberately the caller's responsibility: a URL
	// occurring twice in the input is queried once per occurrence.
	urls := make([]string, 0, len(records))
	for _, rec := range records {
		if u := utils.NormalizeURL(rec.URL); u != "" {
			urls = append(urls, u)
		}
	}

	slog.Info("Checking URLs against blacklist", "count", len(urls))
	results, err := uc.matcher.CheckURLs(ctx, urls)
	if err != nil {
		slog.Error("Blacklist query failed, discarding cycle results",
			"urls", len(urls), "error", err)
		return 0, fmt.Errorf("check %d urls: %w", len(urls), err)
	}

	rows := CorrelateResults(records, results)

	if err := uc.ledger.Append(ctx, rows); err != nil {
		metrics.LedgerWriteFailures.WithLabelValues(uc.ledger.Name()).Inc()
		slog.Error("Ledger append failed, rows lost for this cycle",
			"store", uc.ledger.Name(), "rows", len(rows), "error", err)
		return 0, fmt.Errorf("append %d rows: %w", len(rows), err)
	}
	metrics.LedgerRowsTotal.WithLabelValues(uc.ledger.Name()).Add(float64(len(rows)))

	for _, mirror := range uc.mirrors {
		if err := mirror.Append(ctx, rows); err != nil {
			// Mirrors are best-effort; the authoritative store already has the rows.
			metrics.LedgerWriteFailures.WithLabelValues(mirror.Name()).Inc()
			slog.Warn("Ledger mirror append failed",
				"store", mirror.Name(), "rows", len(rows), "error", err)
			continue
		}
		metrics.LedgerRowsTotal.WithLabelValues(mirror.Name()).Add(float64(len(rows)))
	}

	slog.Info("URLs checked and results written", "rows", len(rows))
	return len(rows), nil
}

// NewLocalSink adapts the verification pipeline to the RecordSink
// interface, letting the watcher run it in-process instead of forwarding
// to a remote ingest endpoint.
func NewLocalSink(bl Blacklist) repository.RecordSink {
	return &localSink{bl: bl}
}

type localSink struct {
	bl Blacklist
}

func (s *localSink) Publish(ctx context.Context, records []entity.URLRecord) error {
	_, err := s.bl.ProcessRecords(ctx, records)
	return err
}
