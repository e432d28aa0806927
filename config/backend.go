package config

import (
	"fmt"
	"strings"
	"time"
)

// BackendConfig points at the POS backend API that handlers proxy to.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "https://pos-api.internal".
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds each proxied call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (c *BackendConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// Validate enforces required settings.
func (c *BackendConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	return nil
}
