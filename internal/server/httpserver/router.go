package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/livemedia/linkgate/internal/server/httpserver/handler"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
)

// RouterConfig collects everything the router needs.
type RouterConfig struct {
	Handler *handler.Handler
	Metrics *metric.Metrics
	Logger  *slog.Logger

	// CORSOrigins lists storefront origins allowed cross-origin.
	CORSOrigins []string

	// RatePerSecond and Burst bound per-IP traffic on the public
	// routes. Zero rate disables limiting.
	RatePerSecond float64
	Burst         int

	// MaxBodyBytes bounds JSON request bodies on the public routes.
	MaxBodyBytes int64

	// DebugProbe mirrors the handler's probe registration so the
	// route only exists when enabled.
	DebugProbe bool
}

// NewRouter assembles the route table with per-group middleware
// chains.
//
// Public routes carry the full chain including CORS, rate limiting
// and body limits. Operational routes (health, readiness, metrics)
// skip those so a flood of storefront traffic cannot starve probes.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	base := []Middleware{
		Recover(log),
		RequestID(),
		Observe(cfg.Metrics),
		Audit(log),
	}

	public := append(append([]Middleware{}, base...),
		CORS(cfg.CORSOrigins),
		RateLimit(cfg.RatePerSecond, cfg.Burst, log),
		MaxBody(cfg.MaxBodyBytes),
	)

	mux := http.NewServeMux()

	// Public storefront surface.
	mux.Handle("POST /issue", Chain(cfg.Handler, public...))
	mux.Handle("GET /download", Chain(cfg.Handler, public...))
	mux.Handle("GET /thankyou", Chain(cfg.Handler, public...))
	mux.Handle("POST /dodo/create-checkout", Chain(cfg.Handler, public...))
	mux.Handle("OPTIONS /", Chain(cfg.Handler, public...))

	if cfg.DebugProbe {
		mux.Handle("POST /_debug/dodo", Chain(cfg.Handler, append(append([]Middleware{}, base...), MaxBody(cfg.MaxBodyBytes))...))
	}

	// Operational surface.
	mux.Handle("GET /health", Chain(cfg.Handler, base...))
	mux.Handle("GET /ready", Chain(cfg.Handler, base...))
	mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), base...))

	return mux
}
