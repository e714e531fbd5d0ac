package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"heiconv/internal/codec"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("vol", dir, 1); !result.Passed {
		t.Fatalf("expected 1 MiB to be available: %s", result.Detail)
	}
	// No volume has this much space; the check must fail cleanly.
	if result := CheckFreeSpace("vol", dir, 1<<40); result.Passed {
		t.Fatal("expected impossible floor to fail")
	}
}

type probeGateway struct {
	err error
}

func (g probeGateway) Probe(context.Context, codec.Format) error { return g.err }

func (g probeGateway) OpenSession() (codec.Session, error) {
	return nil, errors.New("not used")
}

func TestCheckCodec(t *testing.T) {
	pass := CheckCodec(context.Background(), probeGateway{}, codec.FormatHEIC)
	if !pass.Passed {
		t.Fatalf("expected pass: %s", pass.Detail)
	}

	fail := CheckCodec(context.Background(), probeGateway{err: codec.ErrUnavailable}, codec.FormatHEIC)
	if fail.Passed {
		t.Fatal("expected failure when probe fails")
	}
}

func TestRunAllAndFailed(t *testing.T) {
	dir := t.TempDir()
	results := RunAll(context.Background(), Checks{
		OutputDir:  dir,
		MinFreeMiB: 1,
		Gateway:    probeGateway{},
		Format:     codec.FormatHEIC,
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %v", failed)
	}

	results = RunAll(context.Background(), Checks{
		OutputDir: filepath.Join(dir, "missing"),
	})
	if failed := Failed(results); len(failed) != 1 {
		t.Fatalf("expected one failure, got %v", failed)
	}
}
