package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:8787"

	DefaultStorageEngine = "badger"
	DefaultDataDir       = "/var/lib/linkgate/data"
	DefaultBlobDir       = "/var/lib/linkgate/files"

	DefaultDownloadTTL = 1440 * time.Minute

	DefaultRatePerSecond = 10.0
	DefaultBurst         = 20
	DefaultMaxBodyBytes  = 64 << 10 // 64KB

	DefaultPaymentMode    = "test"
	DefaultPaymentTimeout = 15 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			Limits: LimitsConfig{
				RatePerSecond: DefaultRatePerSecond,
				Burst:         DefaultBurst,
				MaxBodyBytes:  DefaultMaxBodyBytes,
			},
		},
		Storage: StorageSection{
			Engine:  DefaultStorageEngine,
			DataDir: DefaultDataDir,
			Badger: BadgerConfig{
				GCInterval:       "10m",
				GCThreshold:      0.5,
				CacheSize:        32 << 20,
				ValueLogFileSize: 256 << 20,
				SyncWrites:       true,
			},
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DialTimeout: 5 * time.Second,
			},
		},
		Blob: BlobSection{
			Dir: DefaultBlobDir,
		},
		Downloads: DownloadsSection{
			TTL:       DefaultDownloadTTL,
			SingleUse: false,
		},
		Payment: PaymentSection{
			Mode:    DefaultPaymentMode,
			Timeout: DefaultPaymentTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
