package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAutosave()
	c.normalizeUploads()
	c.normalizeComposer()
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
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = defaultSocketPath
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAutosave() {
	if c.Autosave.SettleDelayMS <= 0 {
		c.Autosave.SettleDelayMS = defaultSettleDelayMS
	}
	if c.Autosave.SessionIdleSeconds <= 0 {
		c.Autosave.SessionIdleSeconds = defaultSessionIdleSeconds
	}
	if c.Autosave.ReaperIntervalSecs <= 0 {
		c.Autosave.ReaperIntervalSecs = defaultReaperIntervalSecs
	}
}

func (c *Config) normalizeUploads() {
	c.Uploads.BaseURL = strings.TrimSpace(c.Uploads.BaseURL)
	c.Uploads.APIKey = strings.TrimSpace(c.Uploads.APIKey)
	if c.Uploads.APIKey == "" {
		if value, ok := os.LookupEnv("UPLOADS_API_KEY"); ok {
			c.Uploads.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Uploads.TimeoutSeconds <= 0 {
		c.Uploads.TimeoutSeconds = defaultUploadsTimeoutSeconds
	}
}

func (c *Config) normalizeComposer() {
	c.Composer.BaseURL = strings.TrimSpace(c.Composer.BaseURL)
	if c.Composer.BaseURL == "" {
		c.Composer.BaseURL = defaultComposerBaseURL
	}
	c.Composer.Model = strings.TrimSpace(c.Composer.Model)
	if c.Composer.Model == "" {
		c.Composer.Model = defaultComposerModel
	}
	c.Composer.APIKey = strings.TrimSpace(c.Composer.APIKey)
	if c.Composer.APIKey == "" {
		if value, ok := os.LookupEnv("COMPOSER_API_KEY"); ok {
			c.Composer.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Composer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Composer.TimeoutSeconds <= 0 {
		c.Composer.TimeoutSeconds = defaultComposerTimeoutSeconds
	}
	if c.Composer.RetryAttempts <= 0 {
		c.Composer.RetryAttempts = defaultComposerRetryAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
