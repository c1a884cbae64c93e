// Package main implements the caseguard CLI: a case-isolation orchestrator
// with a single frontline agent, background specialists, and a content
// policy firewall.
//
// Usage:
//
//	# Start the status server
//	caseguard serve
//
//	# Talk to the frontline agent from a terminal
//	caseguard chat
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/caseguard/internal/config"
	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
	"github.com/fyrsmithlabs/caseguard/internal/orchestrator"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/store"
	"github.com/fyrsmithlabs/caseguard/internal/telemetry"
)

var (
	version = "dev"

	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "caseguard",
	Short: "Case-isolation agent orchestrator",
	Long: `caseguard runs a multi-agent assistant where every conversation is
strictly isolated to one active case. A content policy firewall keeps all
output educational rather than advisory, and any attempt to cross case
boundaries halts the system.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/caseguard/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}

// buildOrchestrator loads config and wires a full session.
func buildOrchestrator() (*orchestrator.Orchestrator, *config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	fw, err := firewall.New(&cfg.Firewall)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build firewall: %w", err)
	}

	var archive *store.Archive
	if cfg.Store.Path != "" {
		archive, err = store.NewArchive(cfg.Store.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open archive: %w", err)
		}
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Logger:          logger,
		Metrics:         telemetry.NewMetrics(),
		Firewall:        fw,
		Archive:         archive,
		DispatchTimeout: cfg.Dispatch.Timeout,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := persona.Parse(cfg.Persona.Default)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := orch.SetPersona(p); err != nil {
		return nil, nil, nil, err
	}

	return orch, cfg, logger, nil
}
