package repository

import (
	"context"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
)

// Filter selects and orders users for admin listings. AND semantics.
type Filter struct {
	Search string
	Role   domain.Role
	Status domain.ApprovalStatus
	Sort   string
	moderation.PageRequest
}

// Page is one window of a filtered listing.
type Page struct {
	Items      []domain.User
	TotalCount int
	TotalPages int
}

// UserRepository is the user entity store. Email uniqueness is enforced at
// creation; moderation writes are version-guarded.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, f Filter) (*Page, error)

	// ApplyModeration writes the approval-workflow fields under a version check.
	ApplyModeration(ctx context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.User, error)

	CountByApproval(ctx context.Context) (map[domain.ApprovalStatus]int, error)
	Recent(ctx context.Context, limit int) ([]domain.User, error)
}
