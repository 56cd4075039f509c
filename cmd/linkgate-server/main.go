package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/livemedia/linkgate/internal/blob"
	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/infra/buildinfo"
	"github.com/livemedia/linkgate/internal/infra/confloader"
	"github.com/livemedia/linkgate/internal/infra/shutdown"
	"github.com/livemedia/linkgate/internal/payment"
	"github.com/livemedia/linkgate/internal/server/config"
	"github.com/livemedia/linkgate/internal/server/httpserver"
	"github.com/livemedia/linkgate/internal/server/httpserver/handler"
	"github.com/livemedia/linkgate/internal/storage"
	"github.com/livemedia/linkgate/internal/storage/memory"
	"github.com/livemedia/linkgate/internal/telemetry/logger"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
	"github.com/livemedia/linkgate/pkg/seal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("linkgate-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting linkgate-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile,
		"engine", cfg.Storage.Engine,
		"payment_mode", cfg.Payment.Mode)

	metrics := metric.New()

	kv, err := initKV(cfg, metrics, slogLogger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	grants, err := initGrantStore(cfg, kv)
	if err != nil {
		return fmt.Errorf("init grant store: %w", err)
	}

	catalogs, closeCatalog, err := initCatalog(cfg, kv, slogLogger)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}

	blobs, err := blob.NewFSStore(cfg.Blob.Dir)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}

	gateway := payment.NewClient(payment.Config{
		Mode:    payment.Mode(cfg.Payment.Mode),
		BaseURL: cfg.Payment.BaseURL,
		APIKey:  cfg.Payment.APIKey,
		Timeout: cfg.Payment.Timeout,
	}, slogLogger)

	issuer := service.NewIssueService(catalogs, grants, cfg.Downloads.TTL, slogLogger)

	httpHandler := handler.New(handler.Config{
		Issue:         issuer,
		Download:      service.NewDownloadService(grants, blobs, slogLogger, service.WithSingleUse(cfg.Downloads.SingleUse)),
		ThankYou:      service.NewThankYouService(catalogs, slogLogger),
		Checkout:      service.NewCheckoutService(gateway, slogLogger),
		Gateway:       gateway,
		Metrics:       metrics,
		Logger:        slogLogger,
		PublicBaseURL: cfg.Server.HTTP.PublicBaseURL,
		LogoURL:       cfg.Page.LogoURL,
		SupportEmail:  cfg.Page.SupportEmail,
		DebugProbe:    cfg.Payment.Debug,
		Ready:         kv.Ping,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:       httpHandler,
		Metrics:       metrics,
		Logger:        slogLogger,
		CORSOrigins:   cfg.Server.HTTP.CORSOrigins,
		RatePerSecond: cfg.Server.Limits.RatePerSecond,
		Burst:         cfg.Server.Limits.Burst,
		MaxBodyBytes:  cfg.Server.Limits.MaxBodyBytes,
		DebugProbe:    cfg.Payment.Debug,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, slogLogger)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse registration order: server drains before
	// the stores close underneath it.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down storage engine")
		return kv.Close()
	})
	if closeCatalog != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return closeCatalog()
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, an optional file and
// LINKGATE_* environment variables.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the redacting structured logger and a plain
// slog.Logger for components that take one.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.SetDefault(log)

	slogLogger := logger.NewSlog(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	return log, slogLogger, nil
}

// initKV opens the configured KV engine.
func initKV(cfg *config.ServerConfig, metrics *metric.Metrics, log *slog.Logger) (storage.KV, error) {
	switch cfg.Storage.Engine {
	case "badger":
		store, err := storage.NewBadgerStore(storage.BadgerConfig{
			Dir:              cfg.Storage.DataDir,
			GCInterval:       cfg.Storage.Badger.GCInterval,
			GCThreshold:      cfg.Storage.Badger.GCThreshold,
			CacheSize:        cfg.Storage.Badger.CacheSize,
			ValueLogFileSize: cfg.Storage.Badger.ValueLogFileSize,
			SyncWrites:       cfg.Storage.Badger.SyncWrites,
		}, log)
		if err != nil {
			return nil, err
		}
		return store.RegisterMetrics(metrics.Registry()), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:        cfg.Storage.Redis.Addr,
			Password:    cfg.Storage.Redis.Password,
			DB:          cfg.Storage.Redis.DB,
			DialTimeout: cfg.Storage.Redis.DialTimeout,
		}, log)
	case "memory":
		log.Warn("memory engine selected; grants are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}

// initGrantStore wraps the KV with the grant record codec, sealed when
// a sealing key is configured.
func initGrantStore(cfg *config.ServerConfig, kv storage.KV) (*storage.GrantStore, error) {
	if cfg.Security.SealingKey == "" {
		return storage.NewGrantStore(kv), nil
	}
	sealer, err := seal.New(seal.DeriveKey(cfg.Security.SealingKey))
	if err != nil {
		return nil, err
	}
	return storage.NewGrantStore(kv, storage.WithSealer(sealer)), nil
}

// initCatalog assembles the product catalog: the file catalog, when
// configured, shadows the KV catalog.
func initCatalog(cfg *config.ServerConfig, kv storage.KV, log *slog.Logger) (catalog.Catalog, func() error, error) {
	kvCatalog := catalog.NewKVCatalog(kv)
	if cfg.Catalog.File == "" {
		return kvCatalog, nil, nil
	}

	fileCatalog, err := catalog.NewFileCatalog(cfg.Catalog.File, log)
	if err != nil {
		return nil, nil, err
	}
	return catalog.Chain{fileCatalog, kvCatalog}, fileCatalog.Close, nil
}
