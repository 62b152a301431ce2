package repository

import (
	"context"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
)

// Filter selects and orders projects for admin listings. All predicates are
// optional and combine with AND semantics.
type Filter struct {
	Search   string
	Status   domain.Status
	Industry string
	Sort     string
	moderation.PageRequest
}

// Page is one window of a filtered listing. TotalCount reflects the filtered
// set, not the full table.
type Page struct {
	Items      []domain.Project
	TotalCount int
	TotalPages int
}

// FundingTotals aggregates money figures across all projects.
type FundingTotals struct {
	TotalGoal         float64 `json:"total_goal"`
	TotalRaised       float64 `json:"total_raised"`
	TotalOtherSources float64 `json:"total_other_sources"`
}

// IndustryCount is one slice of the category breakdown.
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

// ProjectRepository is the project entity store. Mutations are atomic
// per-entity; the version-guarded methods fail with moderation.ErrConflict
// when a concurrent writer got there first.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f Filter) (*Page, error)

	// UpdateEditable applies non-workflow field edits under a version check.
	UpdateEditable(ctx context.Context, id string, version int64, fields domain.EditFields) (*domain.Project, error)
	// ApplyModeration writes the workflow-managed fields under a version check.
	ApplyModeration(ctx context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.Project, error)
	// SetFeatured flips the featured flag under a version check.
	SetFeatured(ctx context.Context, id string, version int64, featured bool) (*domain.Project, error)

	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
	Funding(ctx context.Context) (*FundingTotals, error)
	IndustryBreakdown(ctx context.Context) ([]IndustryCount, error)
	Recent(ctx context.Context, limit int) ([]domain.Project, error)
}
