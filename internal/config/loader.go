package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	httpsrv "github.com/fyrsmithlabs/caseguard/internal/http"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
)

const envPrefix = "CASEGUARD_"

// Load reads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (CASEGUARD_SERVER_PORT, CASEGUARD_LOGGING_LEVEL, ...)
//  2. YAML config file
//  3. Defaults
//
// configPath may be empty; the default is ~/.config/caseguard/config.yaml.
// A missing file is not an error, defaults and environment apply.
//
// Environment variables map section-first: the first underscore after the
// prefix separates the section from the field, remaining underscores stay
// in the field name (CASEGUARD_DISPATCH_TIMEOUT -> dispatch.timeout).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "caseguard", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg, k)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadBytes parses configuration from raw YAML. Used by tests and by
// callers that manage their own files.
func LoadBytes(content []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg, k)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config, k *koanf.Koanf) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = httpsrv.DefaultConfig().Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = httpsrv.DefaultConfig().Port
	}
	if len(cfg.Firewall.Forbidden) == 0 && len(cfg.Firewall.Conclusions) == 0 {
		def := firewall.DefaultConfig()
		cfg.Firewall.Forbidden = def.Forbidden
		cfg.Firewall.Conclusions = def.Conclusions
	}
	// The firewall defaults to on whether or not custom rules were given;
	// disabling it takes an explicit enabled: false.
	if !k.Exists("firewall.enabled") {
		cfg.Firewall.Enabled = true
	}
	if cfg.Dispatch.Timeout == 0 {
		cfg.Dispatch.Timeout = 5 * time.Second
	}
	if cfg.Persona.Default == "" {
		cfg.Persona.Default = string(persona.Default)
	}
}
