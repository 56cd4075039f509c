package handler

import (
	"net/http"
	"strings"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/render"
)

// handleThankYou renders the post-purchase page: one download button
// per purchased SKU. Rendering only reads the catalog; grants are
// minted when a button posts to /issue, so page views write nothing.
// SKUs with no catalog mapping still render, as disabled items, so one
// stale storefront SKU never blanks the page.
func (h *Handler) handleThankYou(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawSKUs := q.Get("skus")
	if strings.TrimSpace(rawSKUs) == "" {
		h.writeTextError(w, http.StatusBadRequest, "Missing 'skus' query param", domain.ErrMissingSKUList)
		return
	}
	skus := domain.SplitSKUList(rawSKUs)

	orderRef := domain.NormalizeOrderRef(q.Get("order"))
	email := strings.TrimSpace(q.Get("email"))

	items, err := h.cfg.ThankYou.Prepare(r.Context(), skus)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrMissingSKUList.Code) {
			h.writeTextError(w, http.StatusBadRequest, "Missing 'skus' query param", err)
			return
		}
		h.cfg.Logger.Error("thank-you page preparation failed",
			"order_ref", orderRef,
			"error", err)
		h.writeTextError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	err = render.ThankYou(w, render.ThankYouData{
		OrderRef:     orderRef,
		Email:        email,
		Items:        thankYouItems(items),
		ExpiresHours: int(h.cfg.Issue.TTL().Hours()),
		LogoURL:      h.cfg.LogoURL,
		SupportEmail: h.cfg.SupportEmail,
	})
	if err != nil {
		h.cfg.Logger.Error("thank-you page render failed", "error", err)
	}
}

func thankYouItems(items []service.ThankYouItem) []render.Item {
	out := make([]render.Item, 0, len(items))
	for _, item := range items {
		out = append(out, render.Item{
			SKU:         item.SKU,
			Title:       item.Title,
			Unavailable: !item.Available,
		})
	}
	return out
}
