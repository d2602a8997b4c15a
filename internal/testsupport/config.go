package testsupport

import (
	"path/filepath"
	"testing"

	"murmur/internal/config"
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
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.MergedDir = filepath.Join(base, "merged")
	cfgVal.Paths.AssetsDir = filepath.Join(base, "assets")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Assembly.IntroFile = filepath.Join(base, "assets", "intro.mp3")
	cfgVal.Assembly.OutroFile = filepath.Join(base, "assets", "outro.mp3")

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

// WithSilenceSeconds overrides the inter-segment silence gap on the test config.
func WithSilenceSeconds(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assembly.SilenceSeconds = seconds
	}
}

// WithOutputFormat overrides the merged-file container format.
func WithOutputFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assembly.OutputFormat = format
	}
}
