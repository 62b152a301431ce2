package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
	"github.com/raisehub/raisehub-backend/internal/users/repository"
)

// Dispatcher enqueues transition notifications.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg notifications.Message) error
}

// StatsInvalidator drops the cached stats snapshot after a mutation.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ModerationService enacts the user approval workflow. Users only move out
// of pending; rejected is terminal.
type ModerationService struct {
	repo       repository.UserRepository
	dispatcher Dispatcher
	stats      StatsInvalidator
	log        *zap.Logger
}

func NewModerationService(repo repository.UserRepository, dispatcher Dispatcher, stats StatsInvalidator, log *zap.Logger) *ModerationService {
	return &ModerationService{
		repo:       repo,
		dispatcher: dispatcher,
		stats:      stats,
		log:        log,
	}
}

// Get returns a single user.
func (s *ModerationService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// List runs a filtered, sorted, paginated admin listing.
func (s *ModerationService) List(ctx context.Context, f repository.Filter) (*repository.Page, error) {
	return s.repo.List(ctx, f)
}

// CreateParams is the admin-create operation input.
type CreateParams struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	Location  string
	Role      domain.Role
}

// Create registers a user through the admin surface. Admin-created users
// start approved and active; self-signups arrive pending through the public
// signup flow, which is outside this service.
func (s *ModerationService) Create(ctx context.Context, p CreateParams) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if email == "" {
		return nil, moderation.NewValidationError("email", "must not be empty")
	}
	if !p.Role.Valid() {
		return nil, moderation.NewValidationError("role", "unknown role")
	}

	u := &domain.User{
		Email:          email,
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Company:        strings.TrimSpace(p.Company),
		Location:       strings.TrimSpace(p.Location),
		Role:           p.Role,
		ApprovalStatus: domain.ApprovalApproved,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return u, nil
}

// Approve moves a pending user to approved and sends the welcome notice.
func (s *ModerationService) Approve(ctx context.Context, id, adminNotes string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.ApprovalStatus.Moderatable() {
		return nil, moderation.NewTransitionError("user", string(u.ApprovalStatus), "approve")
	}

	upd := domain.ModerationUpdate{ApprovalStatus: domain.ApprovalApproved}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		upd.AdminNotes = &notes
	}

	updated, err := s.repo.ApplyModeration(ctx, id, u.Version, upd)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, notifications.UserWelcome(updated.Email, updated.FirstName))
	return updated, nil
}

// Reject declines a pending user. A non-empty reason is required.
func (s *ModerationService) Reject(ctx context.Context, id, reason, adminNotes string) (*domain.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, moderation.NewValidationError("rejection_reason", "must not be empty")
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.ApprovalStatus.Moderatable() {
		return nil, moderation.NewTransitionError("user", string(u.ApprovalStatus), "reject")
	}

	upd := domain.ModerationUpdate{
		ApprovalStatus:  domain.ApprovalRejected,
		RejectionReason: &reason,
	}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		upd.AdminNotes = &notes
	}

	updated, err := s.repo.ApplyModeration(ctx, id, u.Version, upd)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, notifications.UserRejected(updated.Email, reason))
	return updated, nil
}

// BulkFailure is one per-id failure inside a bulk operation.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult reports independent per-id outcomes of a bulk approve.
type BulkResult struct {
	ApprovedCount int           `json:"approved_count"`
	EmailsSent    int           `json:"emails_sent"`
	Failures      []BulkFailure `json:"failures"`
}

// BulkApprove applies Approve independently per id. One failure never aborts
// the rest; the only operation-level error is a structurally empty request.
func (s *ModerationService) BulkApprove(ctx context.Context, ids []string, adminNotes string) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, moderation.NewValidationError("user_ids", "must not be empty")
	}

	res := &BulkResult{Failures: []BulkFailure{}}
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, adminNotes); err != nil {
			res.Failures = append(res.Failures, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		res.ApprovedCount++
		res.EmailsSent++
	}
	return res, nil
}

func (s *ModerationService) afterTransition(ctx context.Context, msg notifications.Message) {
	if err := s.dispatcher.Enqueue(ctx, msg); err != nil {
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
