package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
)

// MemoryRepository is an in-memory ProjectRepository with the same
// version-check semantics as the Postgres store. It backs tests and local
// development without a database.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{projects: make(map[string]*domain.Project)}
}

var _ ProjectRepository = (*MemoryRepository)(nil)

func clone(p *domain.Project) *domain.Project {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	if p.Valuation != nil {
		v := *p.Valuation
		c.Valuation = &v
	}
	if p.ApprovedAt != nil {
		t := *p.ApprovedAt
		c.ApprovedAt = &t
	}
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if !p.Status.Valid() {
		return moderation.NewValidationError("status", "unknown project status")
	}
	if p.FundingGoal <= 0 {
		return moderation.NewValidationError("funding_goal", "must be greater than zero")
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 1
	if p.Tags == nil {
		p.Tags = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = clone(p)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func matches(p *domain.Project, f Filter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Industry != "" && p.Industry != f.Industry {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := strings.ToLower(s)
		hay := strings.ToLower(strings.Join([]string{
			p.Title, p.Description, p.OwnerName, p.OwnerCompany,
		}, "\x00"))
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

func sortProjects(items []domain.Project, key string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case "title":
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case "status":
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		case "funding_goal":
			if a.FundingGoal != b.FundingGoal {
				return a.FundingGoal > b.FundingGoal
			}
		case "owner":
			if a.OwnerName != b.OwnerName {
				return a.OwnerName < b.OwnerName
			}
		default: // created_at, newest first
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}

func (r *MemoryRepository) List(_ context.Context, f Filter) (*Page, error) {
	if _, err := orderBy(f.Sort); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var all []domain.Project
	for _, p := range r.projects {
		if matches(p, f) {
			all = append(all, *clone(p))
		}
	}
	r.mu.RUnlock()

	sortProjects(all, f.Sort)

	total := len(all)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}

	return &Page{
		Items:      append([]domain.Project{}, all[start:end]...),
		TotalCount: total,
		TotalPages: moderation.TotalPages(total, f.PageSize),
	}, nil
}

// locked lookup with version guard shared by the mutating methods.
func (r *MemoryRepository) checked(id string, version int64) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Version != version {
		return nil, moderation.ErrConflict
	}
	return p, nil
}

func (r *MemoryRepository) UpdateEditable(_ context.Context, id string, version int64, fields domain.EditFields) (*domain.Project, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.checked(id, version)
	if err != nil {
		return nil, err
	}

	fields.Apply(p)
	p.Version++
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

func (r *MemoryRepository) ApplyModeration(_ context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.checked(id, version)
	if err != nil {
		return nil, err
	}

	p.Status = upd.Status
	if upd.AdminNotes != nil {
		p.AdminNotes = *upd.AdminNotes
	}
	if upd.RejectedReason != nil {
		p.RejectedReason = *upd.RejectedReason
	} else {
		p.RejectedReason = ""
	}
	if upd.SetApprovedAt {
		now := time.Now()
		p.ApprovedAt = &now
	}
	p.Version++
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

func (r *MemoryRepository) SetFeatured(_ context.Context, id string, version int64, featured bool) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.checked(id, version)
	if err != nil {
		return nil, err
	}

	p.IsFeatured = featured
	p.Version++
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context) (map[domain.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.Status]int)
	for _, p := range r.projects {
		out[p.Status]++
	}
	return out, nil
}

func (r *MemoryRepository) Funding(_ context.Context) (*FundingTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var t FundingTotals
	for _, p := range r.projects {
		t.TotalGoal += p.FundingGoal
		t.TotalRaised += p.CurrentFunding
		t.TotalOtherSources += p.FundingFromOtherSources
	}
	return &t, nil
}

func (r *MemoryRepository) IndustryBreakdown(_ context.Context) ([]IndustryCount, error) {
	r.mu.RLock()
	counts := make(map[string]int)
	for _, p := range r.projects {
		counts[p.Industry]++
	}
	r.mu.RUnlock()

	out := make([]IndustryCount, 0, len(counts))
	for industry, n := range counts {
		out = append(out, IndustryCount{Industry: industry, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Industry < out[j].Industry
	})
	return out, nil
}

func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]domain.Project, error) {
	r.mu.RLock()
	all := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		all = append(all, *clone(p))
	}
	r.mu.RUnlock()

	sortProjects(all, "created_at")
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
