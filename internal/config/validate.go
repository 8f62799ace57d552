package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAutosave(); err != nil {
		return err
	}
	if err := c.validateComposer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if bind := strings.TrimSpace(c.Paths.APIBind); bind != "" {
		if _, _, err := net.SplitHostPort(bind); err != nil {
			return fmt.Errorf("paths.api_bind %q is not host:port: %w", bind, err)
		}
	}
	return nil
}

func (c *Config) validateAutosave() error {
	if c.Autosave.SettleDelayMS < 50 {
		return errors.New("autosave.settle_delay_ms must be at least 50")
	}
	if c.Autosave.SessionIdleSeconds < c.Autosave.SettleDelayMS/1000 {
		return errors.New("autosave.session_idle_seconds must cover at least one settle delay")
	}
	return nil
}

func (c *Config) validateComposer() error {
	if c.Composer.BaseURL == "" {
		return errors.New("composer.base_url must be set")
	}
	if !strings.HasPrefix(c.Composer.BaseURL, "http://") && !strings.HasPrefix(c.Composer.BaseURL, "https://") {
		return fmt.Errorf("composer.base_url %q must be an http(s) URL", c.Composer.BaseURL)
	}
	return nil
}
