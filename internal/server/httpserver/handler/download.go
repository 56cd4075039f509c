package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
)

// handleDownload redeems a token and streams the file.
//
// Absent and purged tokens share one message with 410; clients cannot
// distinguish a token that never existed from one that aged out of
// storage.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	rawToken := r.URL.Query().Get("t")

	delivery, err := h.cfg.Download.Redeem(r.Context(), rawToken)
	if err != nil {
		switch {
		case domain.IsDomainError(err, domain.ErrMissingToken.Code):
			h.cfg.Metrics.RedemptionsDenied.WithLabelValues(metric.ReasonMissingToken).Inc()
			h.writeTextError(w, http.StatusBadRequest, "Missing token", err)
		case domain.IsDomainError(err, domain.ErrGrantExpired.Code):
			h.cfg.Metrics.RedemptionsDenied.WithLabelValues(metric.ReasonExpired).Inc()
			h.writeTextError(w, http.StatusGone, "Token expired", err)
		case domain.IsDomainError(err, domain.ErrGrantNotFound.Code):
			h.cfg.Metrics.RedemptionsDenied.WithLabelValues(metric.ReasonNotFound).Inc()
			h.writeTextError(w, http.StatusGone, "Token invalid or expired", err)
		case domain.IsDomainError(err, domain.ErrObjectNotFound.Code):
			h.cfg.Metrics.RedemptionsDenied.WithLabelValues(metric.ReasonFileMissing).Inc()
			h.writeTextError(w, http.StatusNotFound, "File not found", err)
		default:
			h.cfg.Logger.Error("redemption failed", "error", err)
			h.writeTextError(w, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}
	defer delivery.Object.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+delivery.AttachmentName+`"`)
	w.Header().Set("Cache-Control", "no-store")
	if delivery.Object.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(delivery.Object.Size, 10))
	}

	n, err := io.Copy(w, delivery.Object)
	h.cfg.Metrics.DownloadsServed.Inc()
	h.cfg.Metrics.DownloadBytes.Add(float64(n))
	if err != nil {
		// Headers are long gone; all we can do is note the broken
		// transfer.
		h.cfg.Logger.Warn("download stream interrupted",
			"sku", delivery.Grant.SKU,
			"written", n,
			"error", err)
	}
}
