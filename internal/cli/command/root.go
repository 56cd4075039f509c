package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/infra/buildinfo"
	"github.com/livemedia/linkgate/internal/infra/confloader"
	"github.com/livemedia/linkgate/internal/server/config"
	"github.com/livemedia/linkgate/internal/storage"
	"github.com/livemedia/linkgate/internal/storage/memory"
	"github.com/livemedia/linkgate/internal/telemetry/logger"
	"github.com/livemedia/linkgate/pkg/seal"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "linkgate-cli",
		Usage:   "linkgate management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			CatalogCommand(),
			GrantCommand(),
			HealthCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			EnvVars: []string{"LINKGATE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
	}
}

// stores bundles the opened storage layer for one command run.
type stores struct {
	cfg     *config.ServerConfig
	kv      storage.KV
	grants  *storage.GrantStore
	catalog *catalog.KVCatalog
}

func (s *stores) Close() error {
	return s.kv.Close()
}

// openStores loads the configuration and opens the KV engine the same
// way the server does.
func openStores(c *cli.Context) (*stores, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewSlog(logger.Config{Level: "warn", Format: "text"})

	var (
		kv  storage.KV
		err error
	)
	switch cfg.Storage.Engine {
	case "badger":
		kv, err = storage.NewBadgerStore(storage.BadgerConfig{
			Dir:              cfg.Storage.DataDir,
			GCInterval:       cfg.Storage.Badger.GCInterval,
			GCThreshold:      cfg.Storage.Badger.GCThreshold,
			CacheSize:        cfg.Storage.Badger.CacheSize,
			ValueLogFileSize: cfg.Storage.Badger.ValueLogFileSize,
			SyncWrites:       cfg.Storage.Badger.SyncWrites,
		}, log)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		kv, err = storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:        cfg.Storage.Redis.Addr,
			Password:    cfg.Storage.Redis.Password,
			DB:          cfg.Storage.Redis.DB,
			DialTimeout: cfg.Storage.Redis.DialTimeout,
		}, log)
	case "memory":
		kv = memory.New()
	default:
		err = fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
	if err != nil {
		return nil, err
	}

	grantOpts := []storage.GrantStoreOption{}
	if cfg.Security.SealingKey != "" {
		sealer, err := seal.New(seal.DeriveKey(cfg.Security.SealingKey))
		if err != nil {
			kv.Close()
			return nil, err
		}
		grantOpts = append(grantOpts, storage.WithSealer(sealer))
	}

	return &stores{
		cfg:     cfg,
		kv:      kv,
		grants:  storage.NewGrantStore(kv, grantOpts...),
		catalog: catalog.NewKVCatalog(kv),
	}, nil
}

// printJSON writes v as indented JSON to the app writer.
func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
