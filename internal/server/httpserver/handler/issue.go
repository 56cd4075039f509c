package handler

import (
	"net/http"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/core/service"
)

// handleIssue mints a download grant for one purchased SKU and
// returns the redeemable URL with its expiry.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := decodeJSON(r, &req); err != nil {
		if bodyTooLarge(err) {
			h.writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large", domain.ErrBadRequest)
			return
		}
		h.writeJSONError(w, http.StatusBadRequest, "Invalid JSON body", domain.ErrBadRequest)
		return
	}

	resp, err := h.cfg.Issue.Issue(r.Context(), &service.IssueRequest{
		SKU:     req.SKU,
		OrderID: req.OrderID,
		Email:   req.Email,
	})
	if err != nil {
		switch {
		case domain.IsDomainError(err, domain.ErrMissingSKU.Code):
			h.writeJSONError(w, http.StatusBadRequest, "Missing SKU", err)
		case domain.IsDomainError(err, domain.ErrUnknownProduct.Code):
			h.writeJSONError(w, http.StatusBadRequest, "No filename for SKU "+domain.NormalizeSKU(req.SKU), err)
		default:
			h.cfg.Logger.Error("grant issuance failed", "sku", req.SKU, "error", err)
			h.writeJSONError(w, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	h.cfg.Metrics.GrantsIssued.Inc()

	h.writeJSON(w, http.StatusOK, issueResponse{
		URL: h.downloadURL(r, resp.Grant.Token),
		Exp: resp.Grant.ExpiresAt,
	})
}
