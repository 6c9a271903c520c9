package httpadapter

import (
	"net/http"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// handleListDeliveries pages through a campaign's delivery ledger,
// optionally narrowed by `status`.
func (h *Handler) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := port.DeliveryQuery{Page: page}
	if v := r.URL.Query().Get("status"); v != "" {
		s := domain.DeliveryStatus(v)
		q.Status = &s
	}

	res, err := h.svc.ListDeliveries(r.Context(), id, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := listResponse[deliveryResponse]{Data: make([]deliveryResponse, 0, len(res.Deliveries)), Meta: toPageMeta(res.Page, res.Total)}
	for i := range res.Deliveries {
		out.Data = append(out.Data, toDeliveryResponse(&res.Deliveries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
