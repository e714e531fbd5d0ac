package codec

import "context"

// Request describes one conversion. The staging path is where the codec must
// write; it never sees the eventual final path.
type Request struct {
	SourcePath  string
	StagingPath string
	Format      Format
	Quality     Quality
}

// Gateway defines codec subsystem behaviour as consumed by the pipeline.
type Gateway interface {
	// Probe verifies the codec can produce the given format. It runs once
	// before any worker starts; failure aborts the run.
	Probe(ctx context.Context, format Format) error
	// OpenSession acquires per-worker codec state. Each worker opens
	// exactly one session at loop entry and closes it on every exit path.
	OpenSession() (Session, error)
}

// Session performs conversions on behalf of a single worker.
type Session interface {
	Convert(ctx context.Context, req Request) error
	Close()
}
