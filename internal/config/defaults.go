package config

const (
	defaultCodecBinary           = "magick"
	defaultProbeTimeoutSeconds   = 30
	defaultConvertTimeoutSeconds = 600
	defaultTargetFormat          = "heic"
	defaultStaleTmpAgeHours      = 24
	defaultMinFreeMiB            = 256
	defaultHistoryPath           = "~/.local/share/heiconv/history.db"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Codec: Codec{
			Binary:                defaultCodecBinary,
			ProbeTimeoutSeconds:   defaultProbeTimeoutSeconds,
			ConvertTimeoutSeconds: defaultConvertTimeoutSeconds,
		},
		Convert: Convert{
			DefaultFormat:    defaultTargetFormat,
			MinFreeMiB:       defaultMinFreeMiB,
			StaleTmpAgeHours: defaultStaleTmpAgeHours,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
