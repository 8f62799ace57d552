package config

const (
	defaultDataDir    = "~/.local/share/reelflow"
	defaultLogDir     = "~/.local/share/reelflow/logs"
	defaultStagingDir = "~/.local/share/reelflow/staging"
	defaultAPIBind    = "127.0.0.1:7492"
	defaultSocketPath = "~/.local/share/reelflow/reelflowd.sock"

	defaultSettleDelayMS      = 1000
	defaultSessionIdleSeconds = 300
	defaultReaperIntervalSecs = 30

	defaultUploadsTimeoutSeconds  = 60
	defaultComposerBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultComposerModel          = "google/gemini-3-flash-preview"
	defaultComposerTimeoutSeconds = 60
	defaultComposerRetryAttempts  = 3

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			StagingDir: defaultStagingDir,
			APIBind:    defaultAPIBind,
			SocketPath: defaultSocketPath,
		},
		Autosave: Autosave{
			SettleDelayMS:      defaultSettleDelayMS,
			SessionIdleSeconds: defaultSessionIdleSeconds,
			ReaperIntervalSecs: defaultReaperIntervalSecs,
		},
		Uploads: Uploads{
			TimeoutSeconds: defaultUploadsTimeoutSeconds,
		},
		Composer: Composer{
			BaseURL:        defaultComposerBaseURL,
			Model:          defaultComposerModel,
			TimeoutSeconds: defaultComposerTimeoutSeconds,
			RetryAttempts:  defaultComposerRetryAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
