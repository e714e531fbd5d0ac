package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// LogDir receives the diagnostic log file. Empty disables file logging.
	LogDir string `toml:"log_dir"`
}

// Codec contains configuration for the external image codec tool.
type Codec struct {
	Binary                string `toml:"binary"`
	ExtraArgs             string `toml:"extra_args"`
	ProbeTimeoutSeconds   int    `toml:"probe_timeout"`
	ConvertTimeoutSeconds int    `toml:"convert_timeout"`
}

// Convert contains configuration for the conversion run itself.
type Convert struct {
	// Workers is the pool size. Zero means one worker per logical CPU.
	Workers       int    `toml:"workers"`
	DefaultFormat string `toml:"default_format"`
	// MinFreeMiB is the free-space floor enforced by preflight on the
	// output volume. Zero disables the check.
	MinFreeMiB int `toml:"min_free_mib"`
	// StaleTmpAgeHours controls how old an orphaned .tmp staging file must
	// be before the pre-run sweep removes it.
	StaleTmpAgeHours int `toml:"stale_tmp_age_hours"`
}

// History contains configuration for the optional run-history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for diagnostic log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for heiconv.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Codec   Codec   `toml:"codec"`
	Convert Convert `toml:"convert"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/heiconv/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path; the third reports whether a file actually existed
// there (defaults are used when it did not).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("heiconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir); c.Paths.LogDir != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}

	c.Codec.Binary = strings.TrimSpace(c.Codec.Binary)
	if c.Codec.Binary == "" {
		c.Codec.Binary = defaultCodecBinary
	}
	if c.Codec.ProbeTimeoutSeconds <= 0 {
		c.Codec.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if c.Codec.ConvertTimeoutSeconds <= 0 {
		c.Codec.ConvertTimeoutSeconds = defaultConvertTimeoutSeconds
	}

	c.Convert.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Convert.DefaultFormat))
	if c.Convert.DefaultFormat == "" {
		c.Convert.DefaultFormat = defaultTargetFormat
	}
	if c.Convert.StaleTmpAgeHours <= 0 {
		c.Convert.StaleTmpAgeHours = defaultStaleTmpAgeHours
	}

	if c.History.Enabled {
		if strings.TrimSpace(c.History.Path) == "" {
			c.History.Path = defaultHistoryPath
		}
		if c.History.Path, err = expandPath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates directories the run needs before any worker
// starts.
func (c *Config) EnsureDirectories() error {
	if c.Paths.LogDir != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
		}
	}
	if c.History.Enabled && c.History.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", filepath.Dir(c.History.Path), err)
		}
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
