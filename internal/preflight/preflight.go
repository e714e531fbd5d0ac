package preflight

import (
	"context"

	"heiconv/internal/codec"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Checks bundles everything RunAll needs to evaluate a run.
type Checks struct {
	OutputDir string
	// MinFreeMiB is the free-space floor for the output volume; zero
	// disables that check.
	MinFreeMiB int
	Gateway    codec.Gateway
	Format     codec.Format
}

// RunAll executes all preflight checks. Callers abort the run when any
// result has Passed == false.
func RunAll(ctx context.Context, checks Checks) []Result {
	results := []Result{
		CheckDirectoryAccess("Output directory", checks.OutputDir),
	}
	if checks.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Output volume", checks.OutputDir, checks.MinFreeMiB))
	}
	if checks.Gateway != nil {
		results = append(results, CheckCodec(ctx, checks.Gateway, checks.Format))
	}
	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
