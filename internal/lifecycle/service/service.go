// Package service implements the transition executor: the one place where
// lifecycle rules, permissions, persistence and side effects meet. UI
// wizards are thin callers that submit one transition request per user
// decision; no business rule lives client-side.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"guardpost/internal/account"
	"guardpost/internal/audit"
	"guardpost/internal/lifecycle/metrics"
	"guardpost/internal/lifecycle/models"
	"guardpost/internal/lifecycle/store"
	"guardpost/internal/notify"
	"guardpost/pkg/domain"
	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/platform/sentinel"
	"guardpost/pkg/platform/tx"
	"guardpost/pkg/requestcontext"
)

// NotificationSink receives committed status changes. Satisfied by
// notify.Dispatcher; fakes stand in for it in tests.
type NotificationSink interface {
	Enqueue(change notify.StatusChange)
}

// Service orchestrates the applicant lifecycle.
type Service struct {
	applicants  store.ApplicantStore
	audit       *audit.Publisher
	provisioner account.Provisioner
	notifier    NotificationSink
	tx          tx.StoreTx
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithProvisioner(p account.Provisioner) Option {
	return func(s *Service) { s.provisioner = p }
}

func WithNotifier(n NotificationSink) Option {
	return func(s *Service) { s.notifier = n }
}

func WithStoreTx(t tx.StoreTx) Option {
	return func(s *Service) { s.tx = t }
}

// New constructs the service. Store and audit publisher are mandatory; the
// rest default to inert implementations so library consumers can start
// small.
func New(applicants store.ApplicantStore, auditPublisher *audit.Publisher, opts ...Option) *Service {
	s := &Service{
		applicants: applicants,
		audit:      auditPublisher,
		logger:     slog.Default(),
		tracer:     otel.Tracer("guardpost/lifecycle"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewInMemory(snapshotters(applicants, auditPublisher)...)
	}
	return s
}

// snapshotters collects in-memory rollback hooks when the wired stores
// support them. SQL deployments pass WithStoreTx(tx.NewSQL(db)) instead.
func snapshotters(stores ...any) []tx.Snapshotter {
	var out []tx.Snapshotter
	for _, s := range stores {
		if snap, ok := s.(tx.Snapshotter); ok {
			out = append(out, snap)
		}
	}
	return out
}

// SubmitRequest is the intake payload.
type SubmitRequest struct {
	Kind     models.Kind
	Payload  []byte
	Complete bool
	Actor    models.Actor
}

// SubmitApplication creates the applicant record and its intake audit
// entry atomically.
func (s *Service) SubmitApplication(ctx context.Context, req SubmitRequest) (*models.Applicant, error) {
	now := requestcontext.Now(ctx)
	applicant, err := models.NewApplicant(domain.NewApplicantID(), req.Kind, req.Payload, req.Complete, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid application")
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.applicants.Create(txCtx, applicant); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create applicant")
		}
		_, err := s.audit.Emit(txCtx, audit.Entry{
			ApplicantID:     applicant.ID,
			Action:          audit.ActionApplicationSubmitted,
			ToStatus:        string(applicant.Status),
			PerformedBy:     req.Actor.Subject,
			PerformedByRole: string(req.Actor.Role),
			RequestID:       requestcontext.RequestID(txCtx),
			Timestamp:       now,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record intake")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}
	s.logger.InfoContext(ctx, "application submitted",
		"applicant_id", applicant.ID,
		"kind", applicant.Kind,
		"status", applicant.Status,
	)
	return applicant, nil
}

// GetApplicant returns the applicant or a not_found error.
func (s *Service) GetApplicant(ctx context.Context, applicantID domain.ApplicantID) (*models.Applicant, error) {
	applicant, err := s.applicants.Load(ctx, applicantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}
	return applicant, nil
}

// GetAuditTrail returns the applicant's trail in commit order.
func (s *Service) GetAuditTrail(ctx context.Context, applicantID domain.ApplicantID) ([]audit.Entry, error) {
	if _, err := s.GetApplicant(ctx, applicantID); err != nil {
		return nil, err
	}
	entries, err := s.audit.List(ctx, applicantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail")
	}
	return entries, nil
}
