package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
	"github.com/raisehub/raisehub-backend/internal/projects/repository"
)

// DelistReason is recorded when an approved project is taken down without an
// operator-supplied reason.
const DelistReason = "delisted by administrator"

// Dispatcher enqueues transition notifications. Enqueue failures are logged
// by the service and never fail the transition.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg notifications.Message) error
}

// StatsInvalidator drops the cached stats snapshot after a mutation.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ModerationService enacts the project state machine: validate the current
// status, persist the transition, then trigger best-effort side effects.
type ModerationService struct {
	repo       repository.ProjectRepository
	dispatcher Dispatcher
	stats      StatsInvalidator
	log        *zap.Logger
}

func NewModerationService(repo repository.ProjectRepository, dispatcher Dispatcher, stats StatsInvalidator, log *zap.Logger) *ModerationService {
	return &ModerationService{
		repo:       repo,
		dispatcher: dispatcher,
		stats:      stats,
		log:        log,
	}
}

// Get returns a single project.
func (s *ModerationService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

// List runs a filtered, sorted, paginated admin listing.
func (s *ModerationService) List(ctx context.Context, f repository.Filter) (*repository.Page, error) {
	return s.repo.List(ctx, f)
}

// Approve moves a project into approved and stamps approved_at. Approving an
// already-approved project is an idempotent no-op so operator retries are
// harmless.
func (s *ModerationService) Approve(ctx context.Context, id, adminNotes string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status == domain.StatusApproved {
		return p, nil
	}
	if !domain.Allowed(domain.ActionApprove, p.Status) {
		return nil, moderation.NewTransitionError("project", string(p.Status), "approve")
	}

	upd := domain.ModerationUpdate{
		Status:        domain.StatusApproved,
		SetApprovedAt: true,
	}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		upd.AdminNotes = &notes
	}

	updated, err := s.repo.ApplyModeration(ctx, id, p.Version, upd)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, notifications.ProjectApproved(updated.OwnerEmail, updated.Title))
	return updated, nil
}

// Reject moves a project into rejected. A non-empty reason is required; it
// is valid from any non-terminal status, including approved (delisting).
func (s *ModerationService) Reject(ctx context.Context, id, reason, adminNotes string) (*domain.Project, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, moderation.NewValidationError("rejection_reason", "must not be empty")
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(domain.ActionReject, p.Status) {
		return nil, moderation.NewTransitionError("project", string(p.Status), "reject")
	}

	notes := strings.TrimSpace(adminNotes)
	if notes == "" {
		notes = reason
	}
	upd := domain.ModerationUpdate{
		Status:         domain.StatusRejected,
		RejectedReason: &reason,
		AdminNotes:     &notes,
	}

	updated, err := s.repo.ApplyModeration(ctx, id, p.Version, upd)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, notifications.ProjectRejected(updated.OwnerEmail, updated.Title, reason))
	return updated, nil
}

// Delist takes an approved project off the platform, modeled as a reject
// with a system-generated reason.
func (s *ModerationService) Delist(ctx context.Context, id string) (*domain.Project, error) {
	return s.Reject(ctx, id, DelistReason, "")
}

// SetFeatured marks or unmarks an approved project as featured.
func (s *ModerationService) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(domain.ActionFeature, p.Status) {
		return nil, moderation.NewTransitionError("project", string(p.Status), "feature")
	}
	return s.repo.SetFeatured(ctx, id, p.Version, featured)
}

// ToggleFeatured flips the featured flag of an approved project.
func (s *ModerationService) ToggleFeatured(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(domain.ActionFeature, p.Status) {
		return nil, moderation.NewTransitionError("project", string(p.Status), "feature")
	}
	return s.repo.SetFeatured(ctx, id, p.Version, !p.IsFeatured)
}

// Edit updates non-workflow fields without touching the status.
func (s *ModerationService) Edit(ctx context.Context, id string, fields domain.EditFields) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateEditable(ctx, id, p.Version, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return updated, nil
}

// SaveAndApproveResult reports the compound "save & approve" action. The
// edit commits first; if the subsequent approve fails the edit is not rolled
// back and ApproveErr carries the failure.
type SaveAndApproveResult struct {
	Project    *domain.Project
	ApproveErr error
}

// SaveAndApprove persists an edit, then approves as a second, independently
// failable step.
func (s *ModerationService) SaveAndApprove(ctx context.Context, id string, fields domain.EditFields, adminNotes string) (*SaveAndApproveResult, error) {
	edited, err := s.Edit(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	approved, err := s.Approve(ctx, id, adminNotes)
	if err != nil {
		return &SaveAndApproveResult{Project: edited, ApproveErr: err}, nil
	}
	return &SaveAndApproveResult{Project: approved}, nil
}

// afterTransition runs the best-effort side effects of a committed
// transition. Failures are logged as dependency failures and never revert
// the transition.
func (s *ModerationService) afterTransition(ctx context.Context, msg notifications.Message) {
	if msg.Recipient == "" {
		s.log.Warn("skipping notification, project owner has no email",
			zap.String("kind", string(msg.Kind)))
	} else if err := s.dispatcher.Enqueue(ctx, msg); err != nil {
		s.log.Error("notification enqueue failed",
			zap.String("kind", string(msg.Kind)),
			zap.String("recipient", msg.Recipient),
			zap.Error(err))
	}

	s.invalidateStats(ctx)
}

func (s *ModerationService) invalidateStats(ctx context.Context) {
	if err := s.stats.Invalidate(ctx); err != nil {
		s.log.Error("stats invalidation failed", zap.Error(err))
	}
}
