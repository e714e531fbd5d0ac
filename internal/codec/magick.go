package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/shlex"

	"heiconv/internal/logging"
)

var commandContext = exec.CommandContext

// Option configures the CLI gateway.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithExtraArgs appends fixed arguments to every conversion invocation.
func WithExtraArgs(args []string) Option {
	return func(c *CLI) {
		c.extraArgs = append([]string(nil), args...)
	}
}

// WithTimeouts overrides probe and per-conversion deadlines.
func WithTimeouts(probe, convert time.Duration) Option {
	return func(c *CLI) {
		if probe > 0 {
			c.probeTimeout = probe
		}
		if convert > 0 {
			c.convertTimeout = convert
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "codec")
	}
}

// CLI wraps an ImageMagick-compatible command-line codec.
type CLI struct {
	binary         string
	extraArgs      []string
	probeTimeout   time.Duration
	convertTimeout time.Duration
	logger         *slog.Logger
}

// NewCLI constructs a CLI gateway using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:         "magick",
		probeTimeout:   30 * time.Second,
		convertTimeout: 10 * time.Minute,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ParseExtraArgs splits a shell-quoted argument string from configuration.
func ParseExtraArgs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	args, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse codec extra_args: %w", err)
	}
	return args, nil
}

// Probe encodes a one-pixel canvas to the target format to verify the
// installed codec can actually produce it, mirroring what a real conversion
// will do. A missing binary and a failed encode both report ErrUnavailable.
func (c *CLI) Probe(ctx context.Context, format Format) error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("%w: binary %q not found", ErrUnavailable, c.binary)
	}

	dir, err := os.MkdirTemp("", "heiconv-probe-")
	if err != nil {
		return fmt.Errorf("create probe dir: %w", err)
	}
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	target := filepath.Join(dir, "probe"+format.Extension())
	args := []string{"xc:white", format.coderName() + ":" + target}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s encode probe failed: %s", ErrUnavailable, format, detail)
	}

	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s encode probe produced no output", ErrUnavailable, format)
	}

	c.logger.Debug("codec probe passed", logging.String("format", format.String()))
	return nil
}

// OpenSession creates a private scratch directory for one worker. ImageMagick
// spills large intermediates to its temp dir; giving every worker its own
// keeps concurrent conversions from treading on each other and makes cleanup
// exact.
func (c *CLI) OpenSession() (Session, error) {
	scratch, err := os.MkdirTemp("", "heiconv-scratch-")
	if err != nil {
		return nil, fmt.Errorf("create codec scratch dir: %w", err)
	}
	return &cliSession{cli: c, scratch: scratch}, nil
}

type cliSession struct {
	cli     *CLI
	scratch string
}

// Convert runs one decode+encode. It writes only to req.StagingPath; the
// coder prefix keeps ImageMagick from guessing the output format from the
// .tmp suffix.
func (s *cliSession) Convert(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, s.cli.convertTimeout)
	defer cancel()

	// [0] selects the first frame so multi-frame sources (GIF, multi-page
	// TIFF) convert deterministically.
	args := []string{req.SourcePath + "[0]"}
	args = append(args, s.cli.extraArgs...)
	if value, ok := req.Quality.Value(); ok {
		args = append(args, "-quality", strconv.Itoa(int(math.Round(value*100))))
	}
	args = append(args, req.Format.coderName()+":"+req.StagingPath)

	cmd := commandContext(ctx, s.cli.binary, args...) //nolint:gosec
	cmd.Env = append(os.Environ(),
		"MAGICK_TMPDIR="+s.scratch,
		"TMPDIR="+s.scratch,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return mapRunError(err, stderr.String())
	}
	return nil
}

func (s *cliSession) Close() {
	_ = os.RemoveAll(s.scratch)
}

// mapRunError translates tool failures into the closed error vocabulary the
// classifier understands. Unrecognized failures keep their raw exit code and
// output.
func mapRunError(err error, stderr string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("conversion timed out: %w", err)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("run codec: %w", err)
	}

	detail := lastLine(stderr)
	lowered := strings.ToLower(stderr)
	switch {
	case strings.Contains(lowered, "permission denied"),
		strings.Contains(lowered, "not authorized"):
		return fmt.Errorf("%w: %s", fs.ErrPermission, detail)
	case strings.Contains(lowered, "no space left on device"),
		strings.Contains(lowered, "disk full"):
		return fmt.Errorf("%w: %s", syscall.ENOSPC, detail)
	case strings.Contains(lowered, "improper image header"),
		strings.Contains(lowered, "insufficient image data"),
		strings.Contains(lowered, "corrupt image"),
		strings.Contains(lowered, "premature end of"),
		strings.Contains(lowered, "no decode delegate"),
		strings.Contains(lowered, "unable to open image"):
		return fmt.Errorf("%w: %s", ErrCorruptInput, detail)
	default:
		return &NativeError{ExitCode: exitErr.ExitCode(), Output: detail}
	}
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
