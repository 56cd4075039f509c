package handler

import (
	"net/http"

	"github.com/livemedia/linkgate/internal/core/domain"
)

// debugProbePath is the provider endpoint exercised by the probe.
const debugProbePath = "/checkouts"

// debugSampleLimit bounds the body sample in the probe report.
const debugSampleLimit = 800

// handleDebugProbe posts {"ping":true} to the provider and reports
// what came back. Registered only when payment.debug is on; config
// verification refuses that in live mode.
func (h *Handler) handleDebugProbe(w http.ResponseWriter, r *http.Request) {
	resp, err := h.cfg.Gateway.Probe(r.Context(), debugProbePath, []byte(`{"ping":true}`))
	if err != nil {
		h.writeJSONError(w, http.StatusBadGateway, "Probe failed: "+err.Error(), domain.ErrUpstream)
		return
	}

	h.writeJSON(w, http.StatusOK, debugResponse{
		RequestTo:   resp.URL,
		Status:      resp.Status,
		ContentType: resp.ContentType,
		BodySample:  upstreamSample(resp.Body, debugSampleLimit),
	})
}
