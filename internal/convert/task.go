package convert

import (
	"path/filepath"

	"heiconv/internal/staging"
)

// Task is one unit of work: convert SourcePath and publish the result at
// FinalPath. Tasks are immutable once the list is built and are consumed
// exactly once.
type Task struct {
	Index      int
	SourcePath string
	FinalPath  string
}

// StagingPath returns where the codec writes before the result is published.
func (t Task) StagingPath() string {
	return staging.PathFor(t.FinalPath)
}

// SourceName returns the base name of the input file.
func (t Task) SourceName() string {
	return filepath.Base(t.SourcePath)
}

// FinalName returns the base name of the output file.
func (t Task) FinalName() string {
	return filepath.Base(t.FinalPath)
}
