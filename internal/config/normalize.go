package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssembly(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		c.Paths.AudioDir = defaultAudioDir
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MergedDir) == "" {
		c.Paths.MergedDir = defaultMergedDir
	}
	if c.Paths.MergedDir, err = expandPath(c.Paths.MergedDir); err != nil {
		return fmt.Errorf("paths.merged_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		c.Paths.AssetsDir = defaultAssetsDir
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssembly() error {
	var err error
	c.Assembly.OutputFormat = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c.Assembly.OutputFormat, ".")))
	if c.Assembly.OutputFormat == "" {
		c.Assembly.OutputFormat = defaultOutputFormat
	}

	// Intro/outro default to well-known names inside the assets directory so
	// the synthesis step and the assembler agree on their location.
	if strings.TrimSpace(c.Assembly.IntroFile) == "" {
		c.Assembly.IntroFile = filepath.Join(c.Paths.AssetsDir, "intro."+c.Assembly.OutputFormat)
	} else if c.Assembly.IntroFile, err = expandPath(c.Assembly.IntroFile); err != nil {
		return fmt.Errorf("assembly.intro_file: %w", err)
	}
	if strings.TrimSpace(c.Assembly.OutroFile) == "" {
		c.Assembly.OutroFile = filepath.Join(c.Paths.AssetsDir, "outro."+c.Assembly.OutputFormat)
	} else if c.Assembly.OutroFile, err = expandPath(c.Assembly.OutroFile); err != nil {
		return fmt.Errorf("assembly.outro_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
