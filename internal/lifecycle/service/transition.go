package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"guardpost/internal/audit"
	"guardpost/internal/lifecycle/models"
	"guardpost/internal/lifecycle/policy"
	"guardpost/internal/notify"
	"guardpost/pkg/domain"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/platform/sentinel"
	"guardpost/pkg/requestcontext"
)

// TransitionRequest asks to move an applicant to a new status.
type TransitionRequest struct {
	ApplicantID domain.ApplicantID
	To          models.Status
	Actor       models.Actor
	Note        string
}

// TransitionResult reports a committed transition.
type TransitionResult struct {
	NewStatus    models.Status       `json:"new_status"`
	AuditEntryID domain.AuditEntryID `json:"audit_entry_id"`
}

// RequestTransition validates, authorizes and applies a status transition.
//
// The status save and the audit append commit together: a failed append
// rolls the status back rather than losing the trail. Account provisioning
// runs after commit; if it fails the caller gets side_effect_failure and
// the committed status stands, logged for manual reconciliation.
// Notification is fire-and-forget.
func (s *Service) RequestTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.RequestTransition")
	defer span.End()
	span.SetAttributes(
		attribute.String("applicant.id", req.ApplicantID.String()),
		attribute.String("transition.to", string(req.To)),
	)
	start := time.Now()

	result, err := s.executeTransition(ctx, req)
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
		}
		s.metrics.ObserveTransition(outcome, string(req.To), time.Since(start))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "transition rejected",
			"applicant_id", req.ApplicantID,
			"to_status", req.To,
			"actor", req.Actor.Subject,
			"actor_role", req.Actor.Role,
			"error", err,
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "transition committed",
		"applicant_id", req.ApplicantID,
		"new_status", result.NewStatus,
		"actor", req.Actor.Subject,
		"actor_role", req.Actor.Role,
	)
	return result, nil
}

func (s *Service) executeTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	// 1. Load the current record.
	applicant, err := s.GetApplicant(ctx, req.ApplicantID)
	if err != nil {
		return nil, err
	}
	fromStatus := applicant.Status

	// 2. The transition must be an edge of the kind's graph.
	if err := applicant.CanTransitionTo(req.To); err != nil {
		return nil, err
	}

	// 3. The actor must be permitted to perform it.
	decision, err := policy.Resolve(req.Actor, applicant, req.To)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, decision.Reason)
	}

	// 4. Consequential decisions must be attributable.
	if req.To.RequiresJustification() && strings.TrimSpace(req.Note) == "" {
		return nil, dErrors.New(dErrors.CodeMissingJustification,
			"a non-empty note is required for decision transitions")
	}

	// 5-6. Apply and commit status + audit entry together.
	now := requestcontext.Now(ctx)
	applicant.ApplyTransition(req.To, now)

	var entryID domain.AuditEntryID
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.applicants.Save(txCtx, applicant, fromStatus); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrConflict):
				return dErrors.New(dErrors.CodeConcurrentModification,
					"applicant was modified concurrently; reload and retry")
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "applicant not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save applicant")
		}
		id, err := s.audit.Emit(txCtx, audit.Entry{
			ApplicantID:     applicant.ID,
			Action:          audit.ActionStatusTransition,
			FromStatus:      string(fromStatus),
			ToStatus:        string(req.To),
			PerformedBy:     req.Actor.Subject,
			PerformedByRole: string(req.Actor.Role),
			Note:            req.Note,
			RequestID:       requestcontext.RequestID(txCtx),
			Timestamp:       now,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record transition")
		}
		entryID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Activation provisions the linked account exactly once.
	if req.To == models.StatusActive && applicant.LinkedAccountID == nil {
		if err := s.provisionAccount(ctx, applicant); err != nil {
			return nil, err
		}
	}

	// 8. Fire-and-forget notification.
	if s.notifier != nil {
		s.notifier.Enqueue(notify.StatusChange{
			ApplicantID: applicant.ID.String(),
			Kind:        string(applicant.Kind),
			NewStatus:   string(req.To),
			ActorID:     req.Actor.Subject,
			ActorRole:   string(req.Actor.Role),
			At:          now,
		})
	}

	return &TransitionResult{NewStatus: req.To, AuditEntryID: entryID}, nil
}

// provisionAccount creates the account and links it to the applicant. The
// status change is already committed when this runs, so failures here are
// side_effect_failure: surfaced distinctly and logged with enough detail
// for manual reconciliation, never silently dropped.
func (s *Service) provisionAccount(ctx context.Context, applicant *models.Applicant) error {
	if s.provisioner == nil {
		return nil
	}
	accountID, err := s.provisioner.EnsureAccount(ctx, applicant.ID, string(applicant.Kind))
	if err != nil {
		s.logger.ErrorContext(ctx, "account provisioning failed after status commit",
			"applicant_id", applicant.ID,
			"expected_effect", "create linked account",
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeSideEffectFailure,
			"status committed but account provisioning failed")
	}

	if err := applicant.LinkAccount(accountID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeSideEffectFailure, "failed to link account")
	}
	if err := s.applicants.Save(ctx, applicant, applicant.Status); err != nil {
		s.logger.ErrorContext(ctx, "failed to record linked account after provisioning",
			"applicant_id", applicant.ID,
			"account_id", accountID,
			"expected_effect", "persist linked account id",
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeSideEffectFailure,
			"account provisioned but link could not be persisted")
	}
	if s.metrics != nil {
		s.metrics.AccountsProvisioned.Inc()
	}
	return nil
}
