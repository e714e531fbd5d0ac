package convert

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"heiconv/internal/codec"
	"heiconv/internal/logging"
	"heiconv/internal/staging"
)

// PoolConfig wires a Pool's collaborators. Gateway and Reporter are
// required; everything else has a sensible zero value.
type PoolConfig struct {
	Gateway codec.Gateway
	Format  codec.Format
	Quality codec.Quality
	// Workers sizes the pool. Zero or negative selects one worker per
	// logical CPU, minimum one.
	Workers  int
	Reporter *Reporter
	// Observer, when set, receives every terminal outcome after it has been
	// counted and reported. Used for the run-history recorder.
	Observer func(Outcome)
	Logger   *slog.Logger
}

// Summary is the aggregate result of a completed run.
type Summary struct {
	Total     int
	Succeeded int64
	Failed    int64
	Workers   int
	Elapsed   time.Duration
}

// Pool owns a fixed set of workers draining one Queue. It is created once
// per run, started once, and joined once; there is no resizing, re-queuing,
// or cancellation of in-flight tasks.
type Pool struct {
	queue    *Queue
	gateway  codec.Gateway
	format   codec.Format
	quality  codec.Quality
	workers  int
	tally    Tally
	reporter *Reporter
	observer func(Outcome)
	logger   *slog.Logger
}

// NewPool builds a pool over the queue.
func NewPool(queue *Queue, cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Pool{
		queue:    queue,
		gateway:  cfg.Gateway,
		format:   cfg.Format,
		quality:  cfg.Quality,
		workers:  workers,
		reporter: cfg.Reporter,
		observer: cfg.Observer,
		logger:   logging.NewComponentLogger(cfg.Logger, "pool"),
	}
}

// Workers returns the configured pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run starts the workers and blocks until every task has reached a terminal
// state and all workers have exited.
func (p *Pool) Run(ctx context.Context) Summary {
	start := time.Now()

	var wg sync.WaitGroup
	for id := 0; id < p.workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(id)
	}
	wg.Wait()

	return Summary{
		Total:     p.queue.Len(),
		Succeeded: p.tally.Succeeded(),
		Failed:    p.tally.Failed(),
		Workers:   p.workers,
		Elapsed:   time.Since(start),
	}
}

// runWorker is the per-worker loop: open a codec session, drain the queue,
// release the session on every exit path. A session-open failure retires
// only this worker; the remaining workers still cover the whole queue.
func (p *Pool) runWorker(ctx context.Context, id int) {
	session, err := p.gateway.OpenSession()
	if err != nil {
		p.logger.Error("codec session init failed, worker retired",
			logging.Int("worker", id),
			logging.Error(err),
			logging.String(logging.FieldEventType, "worker_session_failed"),
		)
		return
	}
	defer session.Close()

	for {
		task, ok := p.queue.Next()
		if !ok {
			return
		}
		outcome := p.processTask(ctx, session, task)
		p.tally.Record(outcome)
		if p.reporter != nil {
			p.reporter.TaskDone(outcome)
		}
		if p.observer != nil {
			p.observer(outcome)
		}
		if !outcome.Success {
			p.logger.Warn("task failed",
				logging.Int("task", task.Index),
				logging.String("source", task.SourcePath),
				logging.String("kind", outcome.Kind.String()),
				logging.String("detail", outcome.Detail),
			)
		}
	}
}

// processTask drives one task to its terminal state. Whatever happens, by
// return time the filesystem holds either a complete final artifact or
// nothing at this task's staging and final paths.
func (p *Pool) processTask(ctx context.Context, session codec.Session, task Task) Outcome {
	req := codec.Request{
		SourcePath:  task.SourcePath,
		StagingPath: task.StagingPath(),
		Format:      p.format,
		Quality:     p.quality,
	}

	if err := session.Convert(ctx, req); err != nil {
		staging.Discard(task.StagingPath())
		kind, detail := ClassifyFailure(err)
		return Outcome{Task: task, Kind: kind, Detail: detail}
	}

	if err := staging.Publish(task.StagingPath(), task.FinalPath); err != nil {
		kind, detail := ClassifyFailure(fmt.Errorf("%w: %w", ErrFinalize, err))
		return Outcome{Task: task, Kind: kind, Detail: detail}
	}

	return Outcome{Task: task, Success: true}
}

// DefaultWorkers returns the logical CPU count, minimum one.
func DefaultWorkers() int {
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		return count
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
