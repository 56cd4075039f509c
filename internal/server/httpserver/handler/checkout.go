package handler

import (
	"encoding/json"
	"net/http"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
)

// handleCreateCheckout forwards a storefront checkout submission to
// the payment provider.
//
// Provider rejections are relayed with the upstream status and a
// details payload so the storefront sees exactly why the provider
// refused.
func (h *Handler) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		if bodyTooLarge(err) {
			h.writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large", domain.ErrBadRequest)
			return
		}
		h.writeJSONError(w, http.StatusBadRequest, "Invalid JSON body", domain.ErrBadRequest)
		return
	}
	req.BaseURL = h.baseURL(r)

	result, err := h.cfg.Checkout.Create(r.Context(), &req)
	if err != nil {
		switch {
		case domain.IsDomainError(err, domain.ErrMissingProductID.Code):
			h.writeJSONError(w, http.StatusBadRequest, "Missing dodo_product_id", err)
		case domain.IsDomainError(err, domain.ErrUpstream.Code):
			h.cfg.Metrics.Checkouts.WithLabelValues(metric.OutcomeFailed).Inc()
			h.writeJSONError(w, http.StatusInternalServerError, "Payment provider unavailable", err)
		default:
			h.cfg.Logger.Error("checkout creation failed", "error", err)
			h.writeJSONError(w, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	if !result.OK() {
		h.cfg.Metrics.Checkouts.WithLabelValues(metric.OutcomeRejected).Inc()

		// JSON rejections are embedded verbatim; anything else is
		// sampled as a string.
		var details any
		if result.Upstream.IsJSON() && json.Valid(result.Upstream.Body) {
			details = json.RawMessage(result.Upstream.Body)
		} else {
			details = upstreamSample(result.Upstream.Body, 500)
		}

		w.Header().Set("X-Error-Code", domain.ErrUpstream.Code)
		h.writeJSON(w, result.Upstream.Status, checkoutErrorResponse{
			Error:    "Dodo upstream error",
			Status:   result.Upstream.Status,
			Upstream: result.Upstream.URL,
			Details:  details,
		})
		return
	}

	h.cfg.Metrics.Checkouts.WithLabelValues(metric.OutcomeCreated).Inc()

	h.writeJSON(w, http.StatusOK, checkoutResponse{
		CheckoutURL: result.CheckoutURL,
		CheckoutID:  result.CheckoutID,
		OrderID:     result.OrderRef,
	})
}

// upstreamSample bounds a non-JSON upstream body for the error
// details.
func upstreamSample(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}
