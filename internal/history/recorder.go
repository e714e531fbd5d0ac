package history

import (
	"context"
	"log/slog"

	"heiconv/internal/convert"
	"heiconv/internal/logging"
)

// Recorder adapts a Store to the pool's outcome observer. Persistence
// failures are logged and swallowed so history never disturbs a run.
type Recorder struct {
	store  *Store
	runID  string
	logger *slog.Logger
}

// NewRecorder begins a run row and returns a recorder bound to it.
func NewRecorder(ctx context.Context, store *Store, info RunInfo, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	runID, err := store.BeginRun(ctx, info)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, runID: runID, logger: logger}, nil
}

// RunID returns the identifier of the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// Observe records one task outcome.
func (r *Recorder) Observe(outcome convert.Outcome) {
	if err := r.store.RecordOutcome(context.Background(), r.runID, outcome); err != nil {
		r.logger.Warn("failed to record task outcome",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.String("source", outcome.Task.SourcePath),
			logging.Error(err))
	}
}

// Finish stamps the run with its final tallies.
func (r *Recorder) Finish(ctx context.Context, summary convert.Summary) {
	if err := r.store.FinishRun(ctx, r.runID, summary); err != nil {
		r.logger.Warn("failed to finalize run history",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.Error(err))
	}
}
