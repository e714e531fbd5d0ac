package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"heiconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Enabled = false
	cfgVal.History.Path = filepath.Join(base, "history.db")
	cfgVal.Convert.Workers = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.Workers = n
	}
}

// WithHistory enables the run-history database on the test config.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithCodecBinary points the codec at an explicit binary path.
func WithCodecBinary(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Codec.Binary = path
	}
}

// WithStubbedCodec writes a stub codec executable that creates its output
// file and exits zero, and points the config at it. The stub parses the
// trailing CODER:path argument the way the real invocation is shaped.
func WithStubbedCodec() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nfor arg in \"$@\"; do last=$arg; done\nout=${last#*:}\nprintf 'data' > \"$out\"\nexit 0\n")
		target := filepath.Join(binDir, "magick")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub codec: %v", err)
		}
		b.cfg.Codec.Binary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
