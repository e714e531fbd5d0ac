package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	binary     string
	outputDir  string
}

// setupCLITestEnv writes a config file pointing at per-test directories and
// a stub codec that creates its output file and exits zero. Sources whose
// name contains "bad" fail with a corrupt-image message.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	binary := filepath.Join(binDir, "magick")
	script := "#!/bin/sh\n" +
		"case \"$1\" in *bad*) echo 'improper image header' >&2; exit 1;; esac\n" +
		"for arg in \"$@\"; do last=$arg; done\n" +
		"out=${last#*:}\n" +
		"printf 'data' > \"$out\"\n" +
		"exit 0\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub codec: %v", err)
	}

	outputDir := filepath.Join(base, "out")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
log_dir = %q

[codec]
binary = %q

[convert]
workers = 2

[history]
enabled = true
path = %q
`, filepath.Join(base, "logs"), binary, filepath.Join(base, "history.db"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		binary:     binary,
		outputDir:  outputDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("imagedata"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
