package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/blacklist-service/internal/entity"
	"github.com/user/blacklist-service/internal/repository"
	"github.com/user/blacklist-service/pkg/metrics"
	"github.com/user/blacklist-service/pkg/utils"
)

// Watcher drives the poll loop: refresh the feed source, diff the new
// snapshot against the previous one, and hand newly appeared rows to the
// record sink. It owns the only cross-cycle state, the baseline of
// already-seen rows, held as a canonical schema plus a row-hash set.
//
// A cycle always runs to completion; cancellation is honored only at the
// sleep boundary, so no write is ever in flight at shutdown.
type Watcher struct {
	source   repository.FeedSource
	sink     repository.RecordSink
	baseline repository.BaselineRepository // optional
	feedLog  repository.FeedLogRepository  // optional
	interval time.Duration

	prevSchema string
	prevKeys   map[string]struct{}

	now func() time.Time
}

// NewWatcher creates a poll loop over the given collaborators. baseline
// and feedLog may be nil; without a baseline store the already-seen set
// lives in process memory only and a restart re-derives it from the live
// feed, silently skipping rows that arrived in between.
func NewWatcher(
	source repository.FeedSource,
	sink repository.RecordSink,
	baseline repository.BaselineRepository,
	feedLog repository.FeedLogRepository,
	interval time.Duration,
) *Watcher {
	return &Watcher{
		source:   source,
		sink:     sink,
		baseline: baseline,
		feedLog:  feedLog,
		interval: interval,
		now:      time.Now,
	}
}

// Init establishes the diff baseline: from the durable store when one is
// configured and holds a baseline, otherwise from a first read of the
// feed. A failure to obtain any baseline is fatal to the process.
func (w *Watcher) Init(ctx context.Context) error {
	if w.baseline != nil {
		schema, keys, err := w.baseline.Load(ctx)
		if err != nil {
			slog.Warn("Loading persisted baseline failed, falling back to live feed", "error", err)
		} else if schema != "" {
			w.prevSchema = schema
			w.prevKeys = keys
			slog.Info("Baseline restored from durable store", "rows", len(keys))
			return nil
		}
	}

	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.advanceBaseline(ctx, snap)
	slog.Info("Baseline derived from current feed", "rows", snap.Len())
	return nil
}

// Run executes poll cycles until the context is cancelled. Cancellation
// is only checked between cycles: a cycle in flight runs to completion,
// so no pull, query or append is ever aborted halfway through.
func (w *Watcher) Run(ctx context.Context) {
	slog.Info("Feed watcher running", "interval", w.interval.String())
	cycleCtx := context.WithoutCancel(ctx)
	for {
		w.runCycle(cycleCtx)

		select {
		case <-ctx.Done():
			slog.Info("Shutdown requested, stopping feed watcher")
			return
		case <-time.After(w.interval):
		}
	}
}

func (w *Watcher) runCycle(ctx context.Context) {
	cycleStart := w.now()
	cycle := entity.Timestamp(cycleStart)

	slog.Info("Pulling feed source for new entries", "cycle", cycle)
	if err := w.source.Refresh(ctx); err != nil {
		// Keep the old baseline; retry happens at the next interval.
		slog.Warn("Feed refresh failed, skipping cycle", "cycle", cycle, "error", err)
		metrics.PollCyclesTotal.WithLabelValues("source_unavailable").Inc()
		return
	}

	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		slog.Warn("Feed snapshot unreadable, skipping cycle", "cycle", cycle, "error", err)
		metrics.PollCyclesTotal.WithLabelValues("source_unavailable").Inc()
		return
	}

	outcome := "ok"
	newRows, err := DiffAgainstKeys(w.prevSchema, w.prevKeys, snap)
	switch {
	case errors.Is(err, ErrSchemaMismatch):
		slog.Error("Snapshot schema changed, no diff possible this cycle",
			"cycle", cycle, "rows", snap.Len(), "error", err)
		outcome = "schema_mismatch"
	case newRows.Len() == 0:
		slog.Info("No new entries found", "cycle", cycle)
	default:
		slog.Info("New entries found", "cycle", cycle, "count", newRows.Len())
		metrics.NewRowsTotal.Add(float64(newRows.Len()))
		w.appendFeedLog(ctx, cycle, newRows)
		if err := w.publish(ctx, cycleStart, newRows); err != nil {
			// Not retried: the baseline still advances below, so these rows
			// stay discovered-but-unverified.
			slog.Error("Publishing new entries failed, rows will not be re-attempted",
				"cycle", cycle, "count", newRows.Len(), "error", err)
			outcome = "publish_failed"
		}
	}

	// At-most-once discovery: the baseline moves forward regardless of
	// verification outcome.
	w.advanceBaseline(ctx, snap)
	metrics.PollCyclesTotal.WithLabelValues(outcome).Inc()
}

// publish converts the new rows to URL records and hands them to the sink.
// Every record of the cycle shares one pulled_time.
func (w *Watcher) publish(ctx context.Context, cycleStart time.Time, newRows *entity.Snapshot) error {
	records := recordsFromSnapshot(newRows, entity.Timestamp(cycleStart))
	if len(records) == 0 {
		slog.Warn("New rows carry no usable url column, nothing to publish",
			"count", newRows.Len())
		return nil
	}
	return w.sink.Publish(ctx, records)
}

func (w *Watcher) appendFeedLog(ctx context.Context, cycle string, newRows *entity.Snapshot) {
	if w.feedLog == nil {
		return
	}
	if err := w.feedLog.AppendRows(ctx, newRows.Columns, newRows.Rows); err != nil {
		slog.Error("Appending discovery log failed", "cycle", cycle,
			"count", newRows.Len(), "error", err)
	}
}

func (w *Watcher) advanceBaseline(ctx context.Context, snap *entity.Snapshot) {
	schema, keys := SnapshotKeys(snap)
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}
	w.prevSchema = schema
	w.prevKeys = keySet

	if w.baseline == nil {
		return
	}
	if err := w.baseline.Replace(ctx, schema, keys); err != nil {
		slog.Warn("Persisting baseline failed, restart may re-flag rows", "error", err)
	}
}

func recordsFromSnapshot(snap *entity.Snapshot, pulledTime string) []entity.URLRecord {
	urlIdx := snap.ColumnIndex("url")
	if urlIdx < 0 {
		return nil
	}
	discIdx := snap.ColumnIndex("discover_time")

	records := make([]entity.URLRecord, 0, snap.Len())
	for _, row := range snap.Rows {
		if urlIdx >= len(row) {
			continue
		}
		url := utils.NormalizeURL(row[urlIdx])
		if url == "" {
			continue
		}
		rec := entity.URLRecord{URL: url, PulledTime: pulledTime}
		if discIdx >= 0 && discIdx < len(row) {
			rec.DiscoverTime = row[discIdx]
		}
		records = append(records, rec)
	}
	return records
}
