package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/nurseduty/pkg/api"
	"github.com/cuemby/nurseduty/pkg/config"
	"github.com/cuemby/nurseduty/pkg/events"
	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the nurseduty HTTP API.

The server seeds the formula schedules and settings documents if they are
missing, then serves until interrupted. Ctrl+C or SIGTERM drains in-flight
requests before exiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "Address for the HTTP API")
	serveCmd.Flags().Bool("watch", false, "Report edits to document files made outside the server")
	addStorageFlags(serveCmd)
}

// openStore initializes logging and opens the configured document store
func openStore(cfg *config.Config, publisher events.Publisher) (*storage.DocumentStore, error) {
	log.Init(cfg.LoggerConfig())

	backend, err := cfg.Storage.OpenBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Storage.Backend, err)
	}
	return storage.NewDocumentStore(backend, storage.WithPublisher(publisher)), nil
}

// consumeEvents counts document events and logs them until sub is closed
func consumeEvents(sub events.Subscriber) {
	logger := log.WithComponent("events")
	for ev := range sub {
		metrics.DocumentEventsTotal.WithLabelValues(string(ev.Type), ev.Collection).Inc()
		logger.Debug().
			Str("id", ev.ID).
			Str("type", string(ev.Type)).
			Str("collection", ev.Collection).
			Interface("metadata", ev.Metadata).
			Msg(ev.Message)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumeEvents(sub)
	}()
	defer func() {
		broker.Unsubscribe(sub)
		<-consumerDone
	}()

	store, err := openStore(cfg, broker)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := log.WithComponent("serve")
	metrics.SetVersion(Version)

	seeded, err := store.Seed()
	if err != nil {
		metrics.RegisterComponent("storage", false, err.Error())
		return fmt.Errorf("failed to seed storage: %w", err)
	}
	metrics.RegisterComponent("storage", true, "")
	for _, c := range seeded {
		logger.Info().Str("collection", string(c)).Msg("created default document")
	}

	collector := metrics.NewCollector(store, 0)
	collector.Start()
	defer collector.Stop()

	if cfg.Storage.Watch {
		watcher, err := storage.NewWatcher(cfg.Storage.DataDir, broker)
		if err != nil {
			return err
		}
		watcher.Start()
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn().Err(err).Msg("failed to stop watcher")
			}
		}()
		logger.Info().Str("dir", cfg.Storage.DataDir).Msg("watching data directory")
	}

	srv := api.NewServer(store, api.Config{
		Addr:              cfg.Server.Addr,
		CORSOrigins:       cfg.Server.CORSOrigins,
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("backend", cfg.Storage.Backend).
		Str("version", Version).
		Msg("nurseduty is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown: %w", err)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("API server error: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
