package config

const (
	defaultDataDir        = "~/.local/share/murmur/data"
	defaultAudioDir       = "~/.local/share/murmur/audio"
	defaultMergedDir      = "~/.local/share/murmur/merged"
	defaultAssetsDir      = "~/.local/share/murmur/assets"
	defaultLogDir         = "~/.local/share/murmur/logs"
	defaultSilenceSeconds = 1.3
	defaultOutputFormat   = "mp3"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			AudioDir:  defaultAudioDir,
			MergedDir: defaultMergedDir,
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
		},
		Assembly: Assembly{
			SilenceSeconds: defaultSilenceSeconds,
			OutputFormat:   defaultOutputFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
