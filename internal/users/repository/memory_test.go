package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
)

func seedUser(t *testing.T, repo *MemoryRepository, id string, mutate func(*domain.User)) {
	t.Helper()
	u := &domain.User{
		ID:             id,
		Email:          id + "@example.com",
		FirstName:      "First" + id,
		LastName:       "Last",
		Role:           domain.RoleProjectOwner,
		ApprovalStatus: domain.ApprovalPending,
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, repo.Create(context.Background(), u))
}

func TestMemoryCreateEnforcesEmailUniqueness(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo, "u1", nil)

	err := repo.Create(context.Background(), &domain.User{
		ID:             "u2",
		Email:          "U1@Example.com",
		Role:           domain.RoleInvestor,
		ApprovalStatus: domain.ApprovalPending,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestMemoryListFilters(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo, "u1", nil)
	seedUser(t, repo, "u2", func(u *domain.User) {
		u.Role = domain.RoleInvestor
		u.ApprovalStatus = domain.ApprovalApproved
	})
	seedUser(t, repo, "u3", func(u *domain.User) { u.Company = "Acme Capital" })

	ctx := context.Background()
	page := func(f Filter) *Page {
		f.PageRequest = moderation.PageRequest{Page: 1, PageSize: 10}
		p, err := repo.List(ctx, f)
		require.NoError(t, err)
		return p
	}

	assert.Equal(t, 2, page(Filter{Role: domain.RoleProjectOwner}).TotalCount)
	assert.Equal(t, 1, page(Filter{Status: domain.ApprovalApproved}).TotalCount)
	assert.Equal(t, 1, page(Filter{Search: "acme"}).TotalCount)
	assert.Equal(t, 0, page(Filter{Role: domain.RoleInvestor, Status: domain.ApprovalPending}).TotalCount)
}

func TestMemoryListPaginationWindow(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Now()
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("u%02d", i)
		seedUser(t, repo, id, func(u *domain.User) {
			u.CreatedAt = base.Add(time.Duration(i) * time.Second)
		})
	}

	last, err := repo.List(context.Background(), Filter{
		PageRequest: moderation.PageRequest{Page: 3, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, 25, last.TotalCount)
	assert.Equal(t, 3, last.TotalPages)
}

func TestMemoryApplyModerationGuards(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo, "u1", nil)
	ctx := context.Background()

	reason := "spam account"
	u, err := repo.ApplyModeration(ctx, "u1", 1, domain.ModerationUpdate{
		ApprovalStatus:  domain.ApprovalRejected,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, u.ApprovalStatus)
	assert.Equal(t, reason, u.RejectionReason)
	assert.EqualValues(t, 2, u.Version)

	_, err = repo.ApplyModeration(ctx, "u1", 1, domain.ModerationUpdate{ApprovalStatus: domain.ApprovalApproved})
	assert.ErrorIs(t, err, moderation.ErrConflict)

	_, err = repo.ApplyModeration(ctx, "missing", 1, domain.ModerationUpdate{ApprovalStatus: domain.ApprovalApproved})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryCountByApproval(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo, "u1", nil)
	seedUser(t, repo, "u2", nil)
	seedUser(t, repo, "u3", func(u *domain.User) { u.ApprovalStatus = domain.ApprovalApproved })

	counts, err := repo.CountByApproval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.ApprovalPending])
	assert.Equal(t, 1, counts[domain.ApprovalApproved])
}
