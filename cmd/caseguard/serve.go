package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpsrv "github.com/fyrsmithlabs/caseguard/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status HTTP server",
	Long: `Start the read-only HTTP surface: /health, /api/v1/status, and
Prometheus metrics on /metrics. The server runs until SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	orch, cfg, logger, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer orch.Close()
	defer logger.Sync()

	srv, err := httpsrv.NewServer(orch, logger, &cfg.Server)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info(cmd.Context(), "shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
