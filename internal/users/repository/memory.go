package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
)

// MemoryRepository is an in-memory UserRepository with the same version and
// uniqueness semantics as the Postgres store.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	emails map[string]string // lowercased email -> id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
	}
}

var _ UserRepository = (*MemoryRepository)(nil)

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if !u.Role.Valid() {
		return moderation.NewValidationError("role", "unknown role")
	}
	if !u.ApprovalStatus.Valid() {
		return moderation.NewValidationError("approval_status", "unknown approval status")
	}

	key := strings.ToLower(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.emails[key]; taken {
		return domain.ErrEmailTaken
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Version = 1

	r.users[u.ID] = clone(u)
	r.emails[key] = u.ID
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(u), nil
}

func matches(u *domain.User, f Filter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.ApprovalStatus != f.Status {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := strings.ToLower(s)
		hay := strings.ToLower(strings.Join([]string{
			u.Email, u.FirstName, u.LastName, u.Company,
		}, "\x00"))
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

func sortUsers(items []domain.User, key string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case "name":
			if a.FirstName != b.FirstName {
				return a.FirstName < b.FirstName
			}
			if a.LastName != b.LastName {
				return a.LastName < b.LastName
			}
		case "email":
			if a.Email != b.Email {
				return a.Email < b.Email
			}
		case "status":
			if a.ApprovalStatus != b.ApprovalStatus {
				return a.ApprovalStatus < b.ApprovalStatus
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
	var all []domain.User
	for _, u := range r.users {
		if matches(u, f) {
			all = append(all, *clone(u))
		}
	}
	r.mu.RUnlock()

	sortUsers(all, f.Sort)

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
		Items:      append([]domain.User{}, all[start:end]...),
		TotalCount: total,
		TotalPages: moderation.TotalPages(total, f.PageSize),
	}, nil
}

func (r *MemoryRepository) ApplyModeration(_ context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Version != version {
		return nil, moderation.ErrConflict
	}

	u.ApprovalStatus = upd.ApprovalStatus
	if upd.RejectionReason != nil {
		u.RejectionReason = *upd.RejectionReason
	} else {
		u.RejectionReason = ""
	}
	if upd.AdminNotes != nil {
		u.AdminNotes = *upd.AdminNotes
	}
	u.Version++
	u.UpdatedAt = time.Now()
	return clone(u), nil
}

func (r *MemoryRepository) CountByApproval(_ context.Context) (map[domain.ApprovalStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.ApprovalStatus]int)
	for _, u := range r.users {
		out[u.ApprovalStatus]++
	}
	return out, nil
}

func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]domain.User, error) {
	r.mu.RLock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *clone(u))
	}
	r.mu.RUnlock()

	sortUsers(all, "created_at")
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
