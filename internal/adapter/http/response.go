package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "RESOURCE_NOT_FOUND"
	codeInvalidState = "INVALID_STATE"
	codeInternal     = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type campaignResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	TemplateRef    string          `json:"template_ref"`
	Filter         json.RawMessage `json:"filter"`
	Status         string          `json:"status"`
	RecipientCount int             `json:"recipient_count"`
	SentCount      int             `json:"sent_count"`
	FailedCount    int             `json:"failed_count"`
	BouncedCount   int             `json:"bounced_count"`
	RetryCount     int             `json:"retry_count"`
	MaxRetries     int             `json:"max_retries"`
	AutoRetry      bool            `json:"auto_retry"`
	RetryAfter     *time.Time      `json:"retry_after"`
	ScheduledAt    *time.Time      `json:"scheduled_at"`
	SnapshotAt     *time.Time      `json:"snapshot_at"`
	StartedAt      *time.Time      `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		TemplateRef:    c.TemplateRef,
		Filter:         c.Filter,
		Status:         c.Status.String(),
		RecipientCount: c.RecipientCount,
		SentCount:      c.SentCount,
		FailedCount:    c.FailedCount,
		BouncedCount:   c.BouncedCount,
		RetryCount:     c.RetryCount,
		MaxRetries:     c.MaxRetries,
		AutoRetry:      c.AutoRetry,
		RetryAfter:     c.RetryAfter,
		ScheduledAt:    c.ScheduledAt,
		SnapshotAt:     c.SnapshotAt,
		StartedAt:      c.StartedAt,
		CompletedAt:    c.CompletedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type deliveryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	UserID       string     `json:"user_id,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ErrorClass   string     `json:"error_class,omitempty"`
	Attempts     int        `json:"attempts"`
	SentAt       *time.Time `json:"sent_at"`
	FailedAt     *time.Time `json:"failed_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toDeliveryResponse(d *domain.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:           d.ID,
		Email:        d.Recipient.Email,
		Name:         d.Recipient.Name,
		UserID:       d.Recipient.UserID,
		Status:       d.Status.String(),
		ErrorMessage: d.ErrorMessage,
		ErrorClass:   string(d.ErrorClass),
		Attempts:     d.Attempts,
		SentAt:       d.SentAt,
		FailedAt:     d.FailedAt,
		CreatedAt:    d.CreatedAt,
	}
}

type pageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func toPageMeta(p port.Page, total int) pageMeta {
	p = p.Normalize()
	return pageMeta{Page: p.Number, PerPage: p.PerPage, Total: total, TotalPages: p.TotalPages(total)}
}

type listResponse[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

type statsResponse struct {
	Campaign   campaignResponse `json:"campaign"`
	Counts     map[string]int   `json:"counts"`
	Reconciled bool             `json:"reconciled"`
}

type retryResponse struct {
	Requeued int `json:"requeued"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a use case error onto a status code and error envelope.
// Internal errors are logged and their message is not exposed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		code   = codeInternal
		msg    = "internal error"
	)
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNoRecipients):
		status, code, msg = http.StatusBadRequest, codeValidation, err.Error()
	case errors.Is(err, domain.ErrCampaignNotFound):
		status, code, msg = http.StatusNotFound, codeNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrRetryBudgetExhausted),
		errors.Is(err, domain.ErrStateConflict),
		errors.Is(err, domain.ErrAlreadyStarted):
		status, code, msg = http.StatusConflict, codeInvalidState, err.Error()
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
