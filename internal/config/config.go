// Package config provides configuration loading for caseguard.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	httpsrv "github.com/fyrsmithlabs/caseguard/internal/http"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
)

// Config is the complete caseguard configuration.
type Config struct {
	Logging  logging.Config  `koanf:"logging"`
	Server   httpsrv.Config  `koanf:"server"`
	Firewall firewall.Config `koanf:"firewall"`
	Dispatch DispatchConfig  `koanf:"dispatch"`
	Persona  PersonaConfig   `koanf:"persona"`
	Store    StoreConfig     `koanf:"store"`
}

// DispatchConfig configures the task coordinator.
type DispatchConfig struct {
	// Timeout bounds specialist execution; expiry fails the task.
	Timeout time.Duration `koanf:"timeout"`
}

// PersonaConfig selects the starting persona.
type PersonaConfig struct {
	Default string `koanf:"default"`
}

// StoreConfig configures the case archive.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables archiving.
	Path string `koanf:"path"`
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Firewall.Validate(); err != nil {
		return fmt.Errorf("firewall: %w", err)
	}
	if c.Dispatch.Timeout < 0 {
		return fmt.Errorf("dispatch: timeout cannot be negative")
	}
	if _, err := persona.Parse(c.Persona.Default); err != nil {
		return fmt.Errorf("persona: %w", err)
	}
	return nil
}
