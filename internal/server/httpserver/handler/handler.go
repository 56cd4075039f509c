package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/payment"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
)

// Config collects the handler's dependencies.
type Config struct {
	Issue    *service.IssueService
	Download *service.DownloadService
	ThankYou *service.ThankYouService
	Checkout *service.CheckoutService

	// Gateway is the raw provider client, only used by the debug probe.
	Gateway *payment.Client

	Metrics *metric.Metrics
	Logger  *slog.Logger

	// PublicBaseURL is the origin used in generated download links.
	// Empty derives the origin from the incoming request.
	PublicBaseURL string

	// LogoURL and SupportEmail decorate the thank-you page.
	LogoURL      string
	SupportEmail string

	// DebugProbe enables POST /_debug/dodo.
	DebugProbe bool

	// Ready reports backend readiness for GET /ready.
	Ready func(ctx context.Context) error
}

// Handler routes and serves the application endpoints.
type Handler struct {
	cfg Config
	mux *http.ServeMux
}

// New creates a Handler and registers its routes.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := &Handler{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("POST /issue", h.handleIssue)
	h.mux.HandleFunc("GET /download", h.handleDownload)
	h.mux.HandleFunc("GET /thankyou", h.handleThankYou)
	h.mux.HandleFunc("POST /dodo/create-checkout", h.handleCreateCheckout)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	if h.cfg.DebugProbe && h.cfg.Gateway != nil {
		h.mux.HandleFunc("POST /_debug/dodo", h.handleDebugProbe)
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// baseURL resolves the origin for generated links: the configured
// public base URL, or the incoming request's scheme and host.
func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// downloadURL composes the redeemable link for a token.
func (h *Handler) downloadURL(r *http.Request, token string) string {
	return h.baseURL(r) + "/download?t=" + token
}

// decodeJSON parses a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// writeJSON writes a JSON response with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.cfg.Logger.Error("failed to encode response", "error", err)
	}
}

// writeJSONError writes a JSON error body, tagging the response with
// the structured error code when one is attached.
func (h *Handler) writeJSONError(w http.ResponseWriter, status int, message string, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	h.writeJSON(w, status, errorResponse{Error: message})
}

// writeTextError writes a plain-text error for the browser-facing
// endpoints.
func (h *Handler) writeTextError(w http.ResponseWriter, status int, message string, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(message))
}

// bodyTooLarge reports whether the decoder failed because MaxBody
// truncated the request.
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
