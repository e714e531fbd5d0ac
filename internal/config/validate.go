package config

import (
	"errors"
	"fmt"
)

var knownFormats = map[string]struct{}{
	"heic": {},
	"jpeg": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCodec(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCodec() error {
	if c.Codec.Binary == "" {
		return errors.New("codec.binary must be set")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.Workers < 0 {
		return errors.New("convert.workers must be zero or positive")
	}
	if c.Convert.MinFreeMiB < 0 {
		return errors.New("convert.min_free_mib must be zero or positive")
	}
	if _, ok := knownFormats[c.Convert.DefaultFormat]; !ok {
		return fmt.Errorf("convert.default_format: unknown format %q (expected heic or jpeg)", c.Convert.DefaultFormat)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
