package config

import "time"

// ServerConfig is the root configuration for linkgate-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Storage   StorageSection   `koanf:"storage"`
	Catalog   CatalogSection   `koanf:"catalog"`
	Blob      BlobSection      `koanf:"blob"`
	Downloads DownloadsSection `koanf:"downloads"`
	Payment   PaymentSection   `koanf:"payment"`
	Page      PageSection      `koanf:"page"`
	Security  SecuritySection  `koanf:"security"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP   HTTPConfig   `koanf:"http"`
	Limits LimitsConfig `koanf:"limits"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// PublicBaseURL is the externally visible origin used when
	// composing download links (e.g. "https://dl.example.com").
	// Empty means links are derived from the incoming request.
	PublicBaseURL string `koanf:"public_base_url"`

	// CORSOrigins lists storefront origins allowed to call the JSON
	// endpoints cross-origin. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LimitsConfig bounds inbound traffic.
type LimitsConfig struct {
	// RatePerSecond is the sustained request rate per client IP.
	// Zero disables rate limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`

	// Burst is the instantaneous burst per client IP.
	Burst int `koanf:"burst"`

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// StorageSection selects and tunes the KV engine.
type StorageSection struct {
	// Engine selects the KV backend: "badger", "redis" or "memory".
	Engine string `koanf:"engine"`

	// DataDir is the Badger storage directory.
	DataDir string `koanf:"data_dir"`

	Badger BadgerConfig `koanf:"badger"`
	Redis  RedisConfig  `koanf:"redis"`
}

// BadgerConfig tunes the embedded Badger engine.
type BadgerConfig struct {
	GCInterval       string `koanf:"gc_interval"`
	GCThreshold      float64 `koanf:"gc_threshold"`
	CacheSize        int64  `koanf:"cache_size"`
	ValueLogFileSize int64  `koanf:"value_log_file_size"`
	SyncWrites       bool   `koanf:"sync_writes"`
}

// RedisConfig configures the Redis engine.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// CatalogSection configures product mappings.
type CatalogSection struct {
	// File is an optional YAML catalog, reloaded on change. The
	// KV-backed catalog is always active; the file takes precedence.
	File string `koanf:"file"`
}

// BlobSection configures the product file store.
type BlobSection struct {
	// Dir is the directory holding deliverable files.
	Dir string `koanf:"dir"`
}

// DownloadsSection configures grant issuance and redemption.
type DownloadsSection struct {
	// TTL is the download window for issued grants.
	TTL time.Duration `koanf:"ttl"`

	// SingleUse consumes a grant on its first successful download.
	SingleUse bool `koanf:"single_use"`
}

// PaymentSection configures the Dodo Payments client.
type PaymentSection struct {
	// Mode selects the provider environment: "test" or "live".
	Mode string `koanf:"mode"`

	// APIKey is the provider secret key.
	APIKey string `koanf:"api_key"`

	// BaseURL overrides the environment URL. Used in tests.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each provider call.
	Timeout time.Duration `koanf:"timeout"`

	// Debug exposes the raw provider probe endpoint. Never enable in
	// production.
	Debug bool `koanf:"debug"`
}

// PageSection configures the thank-you page.
type PageSection struct {
	// LogoURL is rendered at the top of the page when set.
	LogoURL string `koanf:"logo_url"`

	// SupportEmail is shown in the page footer when set.
	SupportEmail string `koanf:"support_email"`
}

// SecuritySection configures at-rest protection.
type SecuritySection struct {
	// SealingKey enables authenticated encryption of stored grants.
	// Any non-empty passphrase; derived to a 32-byte key.
	SealingKey string `koanf:"sealing_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
