package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
	"studio-campaigns/internal/core/port/mocks"
)

var (
	campaignUUID = uuid.MustParse("8d4c7f1e-2a7b-4c55-9d1e-3f0b6f6a1c01")
	created      = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func newTestHandler(t *testing.T) (*mocks.MockCampaignUseCase, http.Handler) {
	t.Helper()
	svc := mocks.NewMockCampaignUseCase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return svc, NewHandler(svc, logger).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func sampleCampaign(status domain.CampaignStatus) *domain.Campaign {
	return &domain.Campaign{
		ID:             campaignUUID,
		Name:           "Spring newsletter",
		TemplateRef:    "welcome",
		Filter:         json.RawMessage(`{"all":true}`),
		Status:         status,
		RecipientCount: 10,
		MaxRetries:     3,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func campaignPath(suffix string) string {
	return "/api/v1/campaigns/" + campaignUUID.String() + suffix
}

func TestCreateCampaign(t *testing.T) {
	svc, h := newTestHandler(t)
	svc.EXPECT().
		CreateCampaign(mock.Anything, mock.MatchedBy(func(req port.CreateCampaignReq) bool {
			return req.Name == "Spring newsletter" && req.TemplateRef == "welcome" &&
				string(req.Filter) == `{"all":true}` && req.AutoRetry && req.MaxRetries != nil && *req.MaxRetries == 2
		})).
		Return(sampleCampaign(domain.CampaignDraft), nil)

	rec := do(t, h, http.MethodPost, "/api/v1/campaigns",
		`{"name":"Spring newsletter","template_ref":"welcome","filter":{"all":true},"auto_retry":true,"max_retries":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[campaignResponse](t, rec)
	assert.Equal(t, campaignUUID, body.ID)
	assert.Equal(t, "draft", body.Status)
	assert.JSONEq(t, `{"all":true}`, string(body.Filter))
}

func TestCreateCampaignRejectsBadJSON(t *testing.T) {
	_, h := newTestHandler(t)

	for _, body := range []string{`{"name":`, `{"unknown":1}`, ``} {
		rec := do(t, h, http.MethodPost, "/api/v1/campaigns", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, codeValidation, decode[errorBody](t, rec).Error.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.ValidationError("name is required"), http.StatusBadRequest, codeValidation},
		{"no recipients", domain.ErrNoRecipients, http.StatusBadRequest, codeValidation},
		{"not found", domain.ErrCampaignNotFound, http.StatusNotFound, codeNotFound},
		{"transition", &domain.TransitionError{From: domain.CampaignSent, To: domain.CampaignSending}, http.StatusConflict, codeInvalidState},
		{"conflict", domain.ErrStateConflict, http.StatusConflict, codeInvalidState},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, h := newTestHandler(t)
			svc.EXPECT().GetCampaign(mock.Anything, campaignUUID).Return(nil, tt.err)

			rec := do(t, h, http.MethodGet, campaignPath(""), "")
			require.Equal(t, tt.status, rec.Code)
			body := decode[errorBody](t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.code == codeInternal {
				assert.Equal(t, "internal error", body.Error.Message)
			}
		})
	}
}

func TestInvalidCampaignID(t *testing.T) {
	_, h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/api/v1/campaigns/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartCampaignRespondsWithCampaign(t *testing.T) {
	svc, h := newTestHandler(t)
	svc.EXPECT().StartCampaign(mock.Anything, campaignUUID).Return(nil)
	svc.EXPECT().GetCampaign(mock.Anything, campaignUUID).Return(sampleCampaign(domain.CampaignSending), nil)

	rec := do(t, h, http.MethodPost, campaignPath("/start"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sending", decode[campaignResponse](t, rec).Status)
}

func TestCancelCampaignConflict(t *testing.T) {
	svc, h := newTestHandler(t)
	svc.EXPECT().CancelCampaign(mock.Anything, campaignUUID).
		Return(&domain.TransitionError{From: domain.CampaignSent, To: domain.CampaignCancelled})

	rec := do(t, h, http.MethodPost, campaignPath("/cancel"), "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error.Message, "from sent to cancelled")
}

func TestScheduleCampaign(t *testing.T) {
	at := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	svc, h := newTestHandler(t)
	c := sampleCampaign(domain.CampaignScheduled)
	c.ScheduledAt = &at
	svc.EXPECT().ScheduleCampaign(mock.Anything, campaignUUID, at).Return(c, nil)

	rec := do(t, h, http.MethodPost, campaignPath("/schedule"), `{"scheduled_at":"2026-03-05T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[campaignResponse](t, rec)
	require.NotNil(t, body.ScheduledAt)
	assert.True(t, at.Equal(*body.ScheduledAt))

	rec = do(t, h, http.MethodPost, campaignPath("/schedule"), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetryFailed(t *testing.T) {
	svc, h := newTestHandler(t)
	svc.EXPECT().RetryFailed(mock.Anything, campaignUUID, port.RetryOptions{}).Return(4, nil).Once()
	svc.EXPECT().RetryFailed(mock.Anything, campaignUUID, port.RetryOptions{AutoRetry: true, MaxRetries: 5}).
		Return(0, domain.ErrRetryBudgetExhausted).Once()

	rec := do(t, h, http.MethodPost, campaignPath("/retry"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[retryResponse](t, rec).Requeued)

	rec = do(t, h, http.MethodPost, campaignPath("/retry"), `{"auto_retry":true,"max_retries":5}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeInvalidState, decode[errorBody](t, rec).Error.Code)
}

func TestListCampaigns(t *testing.T) {
	svc, h := newTestHandler(t)
	sending := domain.CampaignSending
	svc.EXPECT().
		ListCampaigns(mock.Anything, port.CampaignQuery{Status: &sending, Page: port.Page{Number: 2, PerPage: 1}}).
		Return(&port.CampaignPage{
			Campaigns: []domain.Campaign{*sampleCampaign(domain.CampaignSending)},
			Page:      port.Page{Number: 2, PerPage: 1},
			Total:     3,
		}, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/campaigns?status=sending&page=2&per_page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[campaignResponse]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, pageMeta{Page: 2, PerPage: 1, Total: 3, TotalPages: 3}, body.Meta)

	rec = do(t, h, http.MethodGet, "/api/v1/campaigns?page=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDeliveries(t *testing.T) {
	svc, h := newTestHandler(t)
	failed := domain.DeliveryFailed
	failedAt := created.Add(time.Minute)
	svc.EXPECT().
		ListDeliveries(mock.Anything, campaignUUID, port.DeliveryQuery{Status: &failed, Page: port.Page{Number: 1, PerPage: port.DefaultPerPage}}).
		Return(&port.DeliveryPage{
			Deliveries: []domain.Delivery{{
				ID:           uuid.New(),
				CampaignID:   campaignUUID,
				Recipient:    domain.Recipient{Email: "ada@example.com", Name: "Ada"},
				Status:       domain.DeliveryFailed,
				ErrorMessage: "timeout",
				ErrorClass:   domain.FailureTransient,
				Attempts:     1,
				FailedAt:     &failedAt,
				CreatedAt:    created,
			}},
			Page:  port.Page{Number: 1, PerPage: port.DefaultPerPage},
			Total: 1,
		}, nil)

	rec := do(t, h, http.MethodGet, campaignPath("/deliveries?status=failed"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[deliveryResponse]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ada@example.com", body.Data[0].Email)
	assert.Equal(t, "transient", body.Data[0].ErrorClass)
	assert.Equal(t, 1, body.Meta.TotalPages)
}

func TestCampaignStats(t *testing.T) {
	svc, h := newTestHandler(t)
	svc.EXPECT().CampaignStats(mock.Anything, campaignUUID).Return(&port.CampaignStats{
		Campaign: *sampleCampaign(domain.CampaignSending),
		Counts: map[domain.DeliveryStatus]int{
			domain.DeliveryPending: 7,
			domain.DeliverySent:    3,
		},
		Reconciled: true,
	}, nil)

	rec := do(t, h, http.MethodGet, campaignPath("/stats"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[statsResponse](t, rec)
	assert.True(t, body.Reconciled)
	assert.Equal(t, map[string]int{"pending": 7, "sent": 3}, body.Counts)
}

func TestHealthAndMetrics(t *testing.T) {
	_, h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
