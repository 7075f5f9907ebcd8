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

	"github.com/dgallion1/seismic2word/internal/api"
	"github.com/dgallion1/seismic2word/internal/config"
	"github.com/dgallion1/seismic2word/internal/metrics"
	"github.com/dgallion1/seismic2word/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion HTTP API",
	Long: `Serve starts the HTTP API: one-shot conversion, selection sessions
with html, markdown and docx export, plus /health and /metrics.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port")); err != nil {
			return err
		}
		return settings.BindPFlag(config.KeyAPIKey, cmd.Flags().Lookup("api-key"))
	},
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8090", "listen port")
	serveCmd.Flags().String("api-key", "", "require this bearer token on /api routes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load(settings)
	log := newLogger(os.Stdout, cfg, true)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store := session.NewStore(cfg.SessionTTL, log)
	go store.Run(ctx, cfg.CleanupInterval)

	srv := api.NewServer(store, metrics.New(store.Len), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	log.Info("starting seismic2word", "port", cfg.Port, "version", version, "auth", cfg.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
