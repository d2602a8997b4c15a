package config

import (
	"errors"
	"fmt"
)

var supportedOutputFormats = map[string]struct{}{
	"mp3":  {},
	"m4a":  {},
	"ogg":  {},
	"opus": {},
	"flac": {},
	"wav":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAssembly(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MergedDir == "" {
		return errors.New("paths.merged_dir must be set")
	}
	return nil
}

func (c *Config) validateAssembly() error {
	if c.Assembly.SilenceSeconds < 0 {
		return errors.New("assembly.silence_seconds must not be negative")
	}
	if c.Assembly.SilenceSeconds > 30 {
		return errors.New("assembly.silence_seconds must be 30 or less")
	}
	if _, ok := supportedOutputFormats[c.Assembly.OutputFormat]; !ok {
		return fmt.Errorf("assembly.output_format: unsupported value %q", c.Assembly.OutputFormat)
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
