package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"heiconv/internal/codec"
	"heiconv/internal/logging"
)

// fakeGateway implements codec.Gateway in-process. Convert behaviour is
// scripted per source base name; the default writes the staging file.
type fakeGateway struct {
	mu        sync.Mutex
	failures  map[string]error // source base name -> convert error
	converted map[string]int   // source base name -> convert invocations
	opened    atomic.Int64
	closed    atomic.Int64
	openFails atomic.Int64 // number of OpenSession calls to reject
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		failures:  map[string]error{},
		converted: map[string]int{},
	}
}

func (g *fakeGateway) Probe(context.Context, codec.Format) error { return nil }

func (g *fakeGateway) OpenSession() (codec.Session, error) {
	if g.openFails.Add(-1) >= 0 {
		return nil, errors.New("session init refused")
	}
	g.opened.Add(1)
	return &fakeSession{gateway: g}, nil
}

type fakeSession struct {
	gateway *fakeGateway
}

func (s *fakeSession) Convert(_ context.Context, req codec.Request) error {
	base := filepath.Base(req.SourcePath)
	s.gateway.mu.Lock()
	s.gateway.converted[base]++
	err := s.gateway.failures[base]
	s.gateway.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(req.StagingPath, []byte("converted"), 0o644)
}

func (s *fakeSession) Close() {
	s.gateway.closed.Add(1)
}

func buildTasks(t *testing.T, outDir string, n int) []Task {
	t.Helper()
	tasks := make([]Task, n)
	for i := range tasks {
		name := fmt.Sprintf("img%02d", i)
		tasks[i] = Task{
			Index:      i,
			SourcePath: filepath.Join(outDir, name+".jpg"),
			FinalPath:  filepath.Join(outDir, name+".heic"),
		}
	}
	return tasks
}

func runPool(t *testing.T, gateway codec.Gateway, tasks []Task, workers int, reporterOut io.Writer, observer func(Outcome)) Summary {
	t.Helper()
	queue := NewQueue(tasks)
	pool := NewPool(queue, PoolConfig{
		Gateway:  gateway,
		Format:   codec.FormatHEIC,
		Workers:  workers,
		Reporter: NewReporter(reporterOut, queue.Len(), false),
		Observer: observer,
		Logger:   logging.NewNop(),
	})
	return pool.Run(context.Background())
}

func TestPoolConvertsEveryTask(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 10)
	gateway := newFakeGateway()
	out := &syncBuffer{}

	summary := runPool(t, gateway, tasks, 4, out, nil)

	if summary.Succeeded != 10 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, task := range tasks {
		if _, err := os.Stat(task.FinalPath); err != nil {
			t.Errorf("missing final artifact %s: %v", task.FinalPath, err)
		}
		if _, err := os.Stat(task.StagingPath()); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("staging artifact %s should be gone", task.StagingPath())
		}
	}
	if lines := countLines(out.String()); lines != 10 {
		t.Fatalf("expected exactly 10 progress lines, got %d", lines)
	}
}

func TestPoolEachTaskConvertedExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 100)
	gateway := newFakeGateway()

	summary := runPool(t, gateway, tasks, 8, io.Discard, nil)

	if summary.Succeeded+summary.Failed != 100 {
		t.Fatalf("expected 100 outcomes, got %+v", summary)
	}
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	for _, task := range tasks {
		if count := gateway.converted[task.SourceName()]; count != 1 {
			t.Errorf("%s converted %d times", task.SourceName(), count)
		}
	}
}

func TestPoolIsolatesTaskFailures(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 5)
	gateway := newFakeGateway()
	gateway.failures[tasks[2].SourceName()] = fmt.Errorf("%w: bad header", codec.ErrCorruptInput)

	var mu sync.Mutex
	var outcomes []Outcome
	summary := runPool(t, gateway, tasks, 3, io.Discard, func(o Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	})

	if summary.Succeeded != 4 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(outcomes) != 5 {
		t.Fatalf("observer saw %d outcomes, want 5", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Task.Index == 2 {
			if outcome.Success || outcome.Kind != FailureCorruptInput {
				t.Fatalf("failing task outcome = %+v", outcome)
			}
		} else if !outcome.Success {
			t.Fatalf("healthy task %d failed: %+v", outcome.Task.Index, outcome)
		}
	}

	// The failing task leaves nothing behind; the others published.
	if _, err := os.Stat(tasks[2].FinalPath); !errors.Is(err, fs.ErrNotExist) {
		t.Error("failed task must not produce a final artifact")
	}
	if _, err := os.Stat(tasks[2].StagingPath()); !errors.Is(err, fs.ErrNotExist) {
		t.Error("failed task must not leave a staging artifact")
	}
	if _, err := os.Stat(tasks[1].FinalPath); err != nil {
		t.Error("neighboring task should have published normally")
	}
}

func TestPoolClassifiesFinalizeFailure(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 1)
	// Occupy the final path with a non-empty directory. The conversion
	// still writes its staging file, but publish cannot clear the
	// destination, so the failure surfaces at finalize time.
	if err := os.MkdirAll(filepath.Join(tasks[0].FinalPath, "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	gateway := newFakeGateway()

	var got Outcome
	summary := runPool(t, gateway, tasks, 1, io.Discard, func(o Outcome) { got = o })

	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if got.Kind != FailureFinalize {
		t.Fatalf("kind = %v, want FailureFinalize", got.Kind)
	}
	if _, err := os.Stat(tasks[0].StagingPath()); !errors.Is(err, fs.ErrNotExist) {
		t.Error("staging artifact should be discarded after failed finalize")
	}
}

func TestPoolSessionFailureRetiresOnlyThatWorker(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 12)
	gateway := newFakeGateway()
	gateway.openFails.Store(3) // three of four workers refuse to start

	summary := runPool(t, gateway, tasks, 4, io.Discard, nil)

	if summary.Succeeded != 12 {
		t.Fatalf("surviving worker should still cover the queue: %+v", summary)
	}
}

func TestPoolSessionsReleasedOnEveryPath(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 6)
	gateway := newFakeGateway()
	gateway.failures[tasks[0].SourceName()] = errors.New("boom")

	runPool(t, gateway, tasks, 3, io.Discard, nil)

	if opened, closed := gateway.opened.Load(), gateway.closed.Load(); opened != closed {
		t.Fatalf("session leak: opened %d, closed %d", opened, closed)
	}
}

func TestPoolAllSessionsFailingStillTerminates(t *testing.T) {
	dir := t.TempDir()
	tasks := buildTasks(t, dir, 4)
	gateway := newFakeGateway()
	gateway.openFails.Store(2)

	summary := runPool(t, gateway, tasks, 2, io.Discard, nil)

	if summary.Succeeded != 0 || summary.Failed != 0 {
		t.Fatalf("no sessions means no outcomes: %+v", summary)
	}
}

func TestDefaultWorkersIsAtLeastOne(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Fatal("worker count must be at least 1")
	}
}

func countLines(s string) int {
	count := 0
	for _, r := range s {
		if r == '\n' {
			count++
		}
	}
	return count
}
