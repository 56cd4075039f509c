package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyBlob(&cfg.Blob); err != nil {
		return err
	}
	if err := verifyDownloads(&cfg.Downloads); err != nil {
		return err
	}
	if err := verifyPayment(&cfg.Payment); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.PublicBaseURL != "" {
		u, err := url.Parse(cfg.HTTP.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server.http.public_base_url %q is not an absolute URL", cfg.HTTP.PublicBaseURL)
		}
	}
	if cfg.Limits.RatePerSecond < 0 {
		return errors.New("server.limits.rate_per_second cannot be negative")
	}
	if cfg.Limits.RatePerSecond > 0 && cfg.Limits.Burst < 1 {
		return errors.New("server.limits.burst must be at least 1 when rate limiting is on")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case "badger":
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger engine")
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return fmt.Errorf("cannot create data directory: %w", err)
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required for the redis engine")
		}
	case "memory":
		// No prerequisites; grants vanish on restart.
	default:
		return fmt.Errorf("storage.engine %q is not one of badger, redis, memory", cfg.Engine)
	}
	return nil
}

func verifyBlob(cfg *BlobSection) error {
	if cfg.Dir == "" {
		return errors.New("blob.dir is required")
	}
	return nil
}

func verifyDownloads(cfg *DownloadsSection) error {
	if cfg.TTL <= 0 {
		return errors.New("downloads.ttl must be positive")
	}
	return nil
}

func verifyPayment(cfg *PaymentSection) error {
	switch cfg.Mode {
	case "test", "live":
	default:
		return fmt.Errorf("payment.mode %q is not one of test, live", cfg.Mode)
	}
	if cfg.Mode == "live" && cfg.Debug {
		return errors.New("payment.debug cannot be enabled in live mode")
	}
	return nil
}
