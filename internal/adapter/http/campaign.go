package httpadapter

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.CreateCampaign(r.Context(), port.CreateCampaignReq{
		Name:        req.Name,
		TemplateRef: req.TemplateRef,
		Filter:      req.Filter,
		MaxRetries:  req.MaxRetries,
		AutoRetry:   req.AutoRetry,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignResponse(c))
}

// handleListCampaigns accepts optional `status`, `page` and `per_page`
// query parameters.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := port.CampaignQuery{Page: page}
	if v := r.URL.Query().Get("status"); v != "" {
		s := domain.CampaignStatus(v)
		q.Status = &s
	}

	res, err := h.svc.ListCampaigns(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := listResponse[campaignResponse]{Data: make([]campaignResponse, 0, len(res.Campaigns)), Meta: toPageMeta(res.Page, res.Total)}
	for i := range res.Campaigns {
		out.Data = append(out.Data, toCampaignResponse(&res.Campaigns[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req scheduleCampaignRequest
	if err = decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ScheduledAt.IsZero() {
		h.writeError(w, r, domain.ValidationError("scheduled_at is required"))
		return
	}
	c, err := h.svc.ScheduleCampaign(r.Context(), id, req.ScheduledAt)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleStartCampaign(w http.ResponseWriter, r *http.Request) {
	h.transitionAndRespond(w, r, h.svc.StartCampaign)
}

func (h *Handler) handleCancelCampaign(w http.ResponseWriter, r *http.Request) {
	h.transitionAndRespond(w, r, h.svc.CancelCampaign)
}

// handleRetryFailed requeues failed deliveries. The body is optional; an
// empty body retries with the campaign's current policy.
func (h *Handler) handleRetryFailed(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req retryFailedRequest
	if err = decodeJSON(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.svc.RetryFailed(r.Context(), id, port.RetryOptions{AutoRetry: req.AutoRetry, MaxRetries: req.MaxRetries})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, retryResponse{Requeued: n})
}

func (h *Handler) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.svc.CampaignStats(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	counts := make(map[string]int, len(stats.Counts))
	for s, n := range stats.Counts {
		counts[s.String()] = n
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Campaign:   toCampaignResponse(&stats.Campaign),
		Counts:     counts,
		Reconciled: stats.Reconciled,
	})
}

// transitionAndRespond runs a status change and answers with the campaign
// as it is afterwards.
func (h *Handler) transitionAndRespond(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = fn(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}
