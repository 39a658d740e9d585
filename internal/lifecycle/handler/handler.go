// Package handler is the thin HTTP layer over the lifecycle service. It
// translates requests and responses; business rules stay in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"guardpost/internal/audit"
	"guardpost/internal/lifecycle/models"
	"guardpost/internal/lifecycle/service"
	"guardpost/pkg/domain"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/platform/httputil"
	"guardpost/pkg/requestcontext"
)

// Service is the engine surface the handler needs.
type Service interface {
	SubmitApplication(ctx context.Context, req service.SubmitRequest) (*models.Applicant, error)
	RequestTransition(ctx context.Context, req service.TransitionRequest) (*service.TransitionResult, error)
	GetApplicant(ctx context.Context, id domain.ApplicantID) (*models.Applicant, error)
	GetAuditTrail(ctx context.Context, id domain.ApplicantID) ([]audit.Entry, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts lifecycle endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applicants", h.HandleSubmit)
	r.Get("/applicants/{applicantID}", h.HandleGet)
	r.Post("/applicants/{applicantID}/transitions", h.HandleTransition)
	r.Get("/applicants/{applicantID}/audit", h.HandleAuditTrail)
}

// actor builds the domain actor from the authenticated request context.
func actor(ctx context.Context) (models.Actor, error) {
	subject := requestcontext.ActorSubject(ctx)
	if subject == "" {
		return models.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	role, err := models.ParseRole(requestcontext.ActorRole(ctx))
	if err != nil {
		return models.Actor{}, err
	}
	return models.Actor{Subject: subject, Role: role}, nil
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	act, err := actor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	applicant, err := h.service.SubmitApplication(ctx, service.SubmitRequest{
		Kind:     kind,
		Payload:  req.Payload,
		Complete: req.Complete,
		Actor:    act,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromApplicant(applicant))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := actor(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	applicantID, err := domain.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	applicant, err := h.service.GetApplicant(ctx, applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplicant(applicant))
}

func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	act, err := actor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	applicantID, err := domain.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[TransitionRequest](w, r, h.logger)
	if !ok {
		return
	}
	// Legacy vocabulary (e.g. under_review) is normalized here, before the
	// engine sees it.
	to, err := models.ParseStatus(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.RequestTransition(ctx, service.TransitionRequest{
		ApplicantID: applicantID,
		To:          to,
		Actor:       act,
		Note:        req.Note,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := actor(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	applicantID, err := domain.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.GetAuditTrail(ctx, applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries))
}
