package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"routegraph/internal/cache"
	"routegraph/internal/config"
	"routegraph/internal/domain"
	"routegraph/internal/handler"
	"routegraph/internal/hub"
	"routegraph/internal/optimizer"
	"routegraph/internal/repository/sqldb"
	"routegraph/internal/service"
	"routegraph/internal/watcher"
)

func RunServe(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		log.Printf("Loaded config from %s", cfgPath)
	}
	log.Print(cfg.Summary())

	repo, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	log.Printf("Opened %s database", repo.Driver())

	metric, err := cfg.DistanceMetric()
	if err != nil {
		return err
	}
	opt, err := optimizer.New(cfg.Optimizer)
	if err != nil {
		return err
	}

	// Initialize event bus and SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 256)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event.SessionID, event)
			case <-ctx.Done():
				return
			}
		}
	}()

	graphSvc := service.NewGraphService(
		repo,
		domain.NewGraphBuilder(metric),
		opt,
		cache.NewRouteCacheWithCap(cfg.Cache.Capacity),
		eventBus,
	)
	if err := graphSvc.SetServiceArea(cfg.ServiceArea.Area()); err != nil {
		return err
	}

	// Hot reload the service area when the config file changes
	if cfgPath != "" {
		w := watcher.New(cfgPath, watcher.ReloadConfig(cfgPath, func(next *config.Config) {
			if err := graphSvc.SetServiceArea(next.ServiceArea.Area()); err != nil {
				log.Printf("Failed to apply service area: %v", err)
				return
			}
			log.Printf("Config reloaded from %s", cfgPath)
		}))
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Failed to watch config: %v", err)
			}
		}()
	}

	router := handler.NewRouter(handler.NewGraphHandler(graphSvc), sseHub)
	finalHandler := handler.Wrap(router, os.Stderr)

	// WriteTimeout stays zero so SSE streams are not cut off
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     finalHandler,
		ReadTimeout: cfg.Server.ReadTimeout.Duration(),
		IdleTimeout: cfg.Server.IdleTimeout.Duration(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	// Stop the hub first so open event streams end
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// loadServeConfig loads the config file (explicit or searched) and applies
// command line overrides on top.
func loadServeConfig(cmd *cobra.Command) (*config.Config, string, error) {
	explicit, _ := cmd.Flags().GetString("config")

	cfg, path, err := config.Load(explicit)
	if err != nil {
		return nil, path, err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if cmd.Flags().Changed("metric") {
		cfg.Metric.Name, _ = cmd.Flags().GetString("metric")
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}
