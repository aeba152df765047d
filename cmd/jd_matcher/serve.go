package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jd-matcher/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for analysis, drafting, reports, share links and unlocks.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort > 0 {
		a.cfg.Server.Port = servePort
	}
	if !a.cfg.Unlock.Enabled() {
		a.logger.Warn("Unlock secrets not set; every request is served the locked preview")
	}
	if d := a.cfg.Embedding.PrewarmDelay; d > 0 {
		a.embedder.WarmAfter(d)
		a.logger.Info("Embedding pre-warm scheduled", zap.Duration("delay", d))
	}

	srv, err := server.New(a.cfg, a.embedder, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	return srv.Start(cmd.Context())
}
