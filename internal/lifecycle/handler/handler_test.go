package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardpost/internal/audit"
	"guardpost/internal/lifecycle/models"
	"guardpost/internal/lifecycle/service"
	"guardpost/pkg/domain"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/requestcontext"
)

type stubService struct {
	submitErr     error
	transitionErr error

	lastSubmit     service.SubmitRequest
	lastTransition service.TransitionRequest

	applicant *models.Applicant
	result    *service.TransitionResult
	trail     []audit.Entry
}

func (s *stubService) SubmitApplication(_ context.Context, req service.SubmitRequest) (*models.Applicant, error) {
	s.lastSubmit = req
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.applicant, nil
}

func (s *stubService) RequestTransition(_ context.Context, req service.TransitionRequest) (*service.TransitionResult, error) {
	s.lastTransition = req
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.result, nil
}

func (s *stubService) GetApplicant(context.Context, domain.ApplicantID) (*models.Applicant, error) {
	if s.applicant == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
	}
	return s.applicant, nil
}

func (s *stubService) GetAuditTrail(context.Context, domain.ApplicantID) ([]audit.Entry, error) {
	return s.trail, nil
}

func newTestApplicant(t *testing.T) *models.Applicant {
	t.Helper()
	a, err := models.NewApplicant(domain.NewApplicantID(), models.KindGuard, []byte(`{"name":"test"}`), true, time.Now())
	require.NoError(t, err)
	return a
}

// serve mounts the handler the way the router does and performs one request.
func serve(stub *stubService, req *http.Request) *httptest.ResponseRecorder {
	h := New(stub, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request, subject, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), subject, role))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleSubmit(t *testing.T) {
	t.Run("creates applicant", func(t *testing.T) {
		stub := &stubService{applicant: newTestApplicant(t)}
		body := bytes.NewBufferString(`{"kind":"guard","payload":{"name":"test"},"complete":true}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants", body), "ops-1", "operations")

		rec := serve(stub, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, models.KindGuard, stub.lastSubmit.Kind)
		assert.True(t, stub.lastSubmit.Complete)
		assert.Equal(t, "ops-1", stub.lastSubmit.Actor.Subject)

		var resp ApplicantResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, stub.applicant.ID.String(), resp.ID)
		assert.Equal(t, "pending_review", resp.Status)
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		body := bytes.NewBufferString(`{"kind":"guard"}`)
		rec := serve(&stubService{}, httptest.NewRequest(http.MethodPost, "/applicants", body))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", errorCode(t, rec))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		body := bytes.NewBufferString(`{"kind":"contractor"}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants", body), "ops-1", "operations")
		rec := serve(&stubService{}, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := bytes.NewBufferString(`{"kind":"guard","admin":true}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants", body), "ops-1", "operations")
		rec := serve(&stubService{}, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", errorCode(t, rec))
	})
}

func TestHandleTransition(t *testing.T) {
	applicant := func(t *testing.T) *models.Applicant { return newTestApplicant(t) }

	t.Run("passes normalized status to the service", func(t *testing.T) {
		a := applicant(t)
		stub := &stubService{
			applicant: a,
			result:    &service.TransitionResult{NewStatus: models.StatusPendingReview, AuditEntryID: domain.NewAuditEntryID()},
		}
		body := bytes.NewBufferString(`{"to":"under_review"}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants/"+a.ID.String()+"/transitions", body), "ops-1", "operations")

		rec := serve(stub, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.StatusPendingReview, stub.lastTransition.To,
			"legacy vocabulary must be normalized before it reaches the engine")
		assert.Equal(t, a.ID, stub.lastTransition.ApplicantID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		a := applicant(t)
		body := bytes.NewBufferString(`{"to":"limbo"}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants/"+a.ID.String()+"/transitions", body), "mgr-1", "management")

		rec := serve(&stubService{}, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed applicant id", func(t *testing.T) {
		body := bytes.NewBufferString(`{"to":"approved","note":"ok"}`)
		req := authed(httptest.NewRequest(http.MethodPost, "/applicants/not-a-uuid/transitions", body), "mgr-1", "management")

		rec := serve(&stubService{}, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_input", errorCode(t, rec))
	})

	t.Run("maps engine errors to status codes", func(t *testing.T) {
		cases := []struct {
			code dErrors.Code
			want int
		}{
			{dErrors.CodeNotFound, http.StatusNotFound},
			{dErrors.CodeIllegalTransition, http.StatusConflict},
			{dErrors.CodeNotAuthorized, http.StatusForbidden},
			{dErrors.CodeMissingJustification, http.StatusBadRequest},
			{dErrors.CodeConcurrentModification, http.StatusConflict},
			{dErrors.CodeSideEffectFailure, http.StatusBadGateway},
		}
		a := applicant(t)
		for _, tc := range cases {
			t.Run(string(tc.code), func(t *testing.T) {
				stub := &stubService{transitionErr: dErrors.New(tc.code, "nope")}
				body := bytes.NewBufferString(`{"to":"approved","note":"ok"}`)
				req := authed(httptest.NewRequest(http.MethodPost, "/applicants/"+a.ID.String()+"/transitions", body), "mgr-1", "management")

				rec := serve(stub, req)
				assert.Equal(t, tc.want, rec.Code)
				assert.Equal(t, string(tc.code), errorCode(t, rec))
			})
		}
	})
}

func TestHandleGet(t *testing.T) {
	t.Run("returns applicant", func(t *testing.T) {
		a := newTestApplicant(t)
		req := authed(httptest.NewRequest(http.MethodGet, "/applicants/"+a.ID.String(), nil), "mgr-1", "management")

		rec := serve(&stubService{applicant: a}, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ApplicantResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, a.ID.String(), resp.ID)
		assert.Empty(t, resp.LinkedAccountID)
	})

	t.Run("returns not_found for missing applicant", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/applicants/"+domain.NewApplicantID().String(), nil), "mgr-1", "management")

		rec := serve(&stubService{}, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", errorCode(t, rec))
	})
}

func TestHandleAuditTrail(t *testing.T) {
	a := newTestApplicant(t)
	trail := []audit.Entry{
		{
			ID:              domain.NewAuditEntryID(),
			ApplicantID:     a.ID,
			Action:          audit.ActionApplicationSubmitted,
			ToStatus:        "pending_review",
			PerformedBy:     "ops-1",
			PerformedByRole: "operations",
			Timestamp:       time.Now(),
		},
		{
			ID:              domain.NewAuditEntryID(),
			ApplicantID:     a.ID,
			Action:          audit.ActionStatusTransition,
			FromStatus:      "pending_review",
			ToStatus:        "approved",
			PerformedBy:     "mgr-1",
			PerformedByRole: "management",
			Note:            "background check clean",
			Timestamp:       time.Now(),
		},
	}
	req := authed(httptest.NewRequest(http.MethodGet, "/applicants/"+a.ID.String()+"/audit", nil), "mgr-1", "management")

	rec := serve(&stubService{applicant: a, trail: trail}, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []AuditEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, audit.ActionApplicationSubmitted, resp[0].Action)
	assert.Equal(t, "approved", resp[1].ToStatus)
	assert.Equal(t, "background check clean", resp[1].Note)
}
