package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fentz26/vitalis/internal/advisor"
	"github.com/fentz26/vitalis/internal/audit"
	"github.com/fentz26/vitalis/internal/config"
	"github.com/fentz26/vitalis/internal/connectors/gemini"
	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the Vitalis daemon",
	Long:  `Starts the Vitalis daemon which serves the dashboard HTTP API.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides config)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := newLogger(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting Vitalis daemon", zap.String("db", cfg.DBPath))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database connection")
		if err := s.Close(); err != nil {
			log.Warn("database close error", zap.Error(err))
		}
	}()

	// Initialize components
	gen, err := gemini.New(ctx, cfg.Gemini.APIKey,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithTimeout(cfg.Gemini.Timeout),
	)
	if err != nil {
		return err
	}
	rec := advisor.New(gen,
		advisor.WithMaxAttempts(cfg.Retry.MaxAttempts),
		advisor.WithBaseDelay(cfg.Retry.BaseDelay),
		advisor.WithLogger(log.Named("advisor")),
	)
	pdr := audit.NewPDRWriter(s, log.Named("audit"))

	// Create service and server
	service := dashboard.NewService(s, rec, pdr, log.Named("service"))
	server := dashboard.NewServer(service, cfg.Listen, cfg.CORS.AllowedOrigins, log.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down HTTP server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("daemon stopped", zap.Error(err))
		return err
	}
	log.Info("shutdown complete")
	return nil
}
