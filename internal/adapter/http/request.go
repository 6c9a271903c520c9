package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

const maxBodyBytes = 1 << 20

type createCampaignRequest struct {
	Name        string          `json:"name"`
	TemplateRef string          `json:"template_ref"`
	Filter      json.RawMessage `json:"filter"`
	MaxRetries  *int            `json:"max_retries"`
	AutoRetry   bool            `json:"auto_retry"`
}

type scheduleCampaignRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type retryFailedRequest struct {
	AutoRetry  bool `json:"auto_retry"`
	MaxRetries int  `json:"max_retries"`
}

// decodeJSON decodes a single JSON object. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return domain.ValidationError("invalid JSON body: %v", err)
	}
	return nil
}

func campaignID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ValidationError("invalid campaign id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func pageFromQuery(r *http.Request) (port.Page, error) {
	var (
		q   = r.URL.Query()
		p   port.Page
		err error
	)
	if v := q.Get("page"); v != "" {
		if p.Number, err = strconv.Atoi(v); err != nil {
			return p, domain.ValidationError("invalid page %q", v)
		}
	}
	if v := q.Get("per_page"); v != "" {
		if p.PerPage, err = strconv.Atoi(v); err != nil {
			return p, domain.ValidationError("invalid per_page %q", v)
		}
	}
	return p.Normalize(), nil
}
