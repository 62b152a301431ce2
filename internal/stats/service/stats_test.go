package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	projdomain "github.com/raisehub/raisehub-backend/internal/projects/domain"
	projrepo "github.com/raisehub/raisehub-backend/internal/projects/repository"
	userdomain "github.com/raisehub/raisehub-backend/internal/users/domain"
	userrepo "github.com/raisehub/raisehub-backend/internal/users/repository"
)

func newTestStats(t *testing.T) (*StatsService, *projrepo.MemoryRepository, *userrepo.MemoryRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	projects := projrepo.NewMemoryRepository()
	users := userrepo.NewMemoryRepository()
	svc := NewStatsService(projects, users, client, time.Minute, zap.NewNop())
	return svc, projects, users, mr
}

func seedData(t *testing.T, projects *projrepo.MemoryRepository, users *userrepo.MemoryRepository) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, projects.Create(ctx, &projdomain.Project{
		ID: "p1", Title: "Solar", Industry: "energy",
		Status: projdomain.StatusApproved, FundingGoal: 1000, CurrentFunding: 400,
	}))
	require.NoError(t, projects.Create(ctx, &projdomain.Project{
		ID: "p2", Title: "Fin", Industry: "fintech",
		Status: projdomain.StatusPending, FundingGoal: 2000,
	}))

	require.NoError(t, users.Create(ctx, &userdomain.User{
		ID: "u1", Email: "u1@example.com",
		Role: userdomain.RoleProjectOwner, ApprovalStatus: userdomain.ApprovalPending,
	}))
	require.NoError(t, users.Create(ctx, &userdomain.User{
		ID: "u2", Email: "u2@example.com",
		Role: userdomain.RoleInvestor, ApprovalStatus: userdomain.ApprovalApproved,
	}))
}

func TestRecomputeAggregates(t *testing.T) {
	svc, projects, users, _ := newTestStats(t)
	seedData(t, projects, users)

	snap, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, snap.ProjectCounts[projdomain.StatusApproved])
	assert.Equal(t, 1, snap.ProjectCounts[projdomain.StatusPending])
	assert.Equal(t, 1, snap.UserCounts[userdomain.ApprovalPending])
	assert.Equal(t, 1, snap.UserCounts[userdomain.ApprovalApproved])
	assert.Equal(t, 3000.0, snap.FundingStats.TotalGoal)
	assert.Equal(t, 400.0, snap.FundingStats.TotalRaised)
	assert.Len(t, snap.CategoryBreakdown, 2)
	assert.Len(t, snap.RecentActivity.Projects, 2)
	assert.Len(t, snap.RecentActivity.Users, 2)
	assert.False(t, snap.GeneratedAt.IsZero())
}

func TestGetServesFromCache(t *testing.T) {
	svc, projects, users, _ := newTestStats(t)
	seedData(t, projects, users)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)

	// a write after the snapshot is not visible until invalidation
	require.NoError(t, projects.Create(ctx, &projdomain.Project{
		ID: "p3", Title: "Late", Status: projdomain.StatusPending, FundingGoal: 500,
	}))

	cached, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.GeneratedAt.Unix(), cached.GeneratedAt.Unix())
	assert.Equal(t, 3000.0, cached.FundingStats.TotalGoal)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	svc, projects, users, _ := newTestStats(t)
	seedData(t, projects, users)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, projects.Create(ctx, &projdomain.Project{
		ID: "p3", Title: "Late", Status: projdomain.StatusPending, FundingGoal: 500,
	}))
	require.NoError(t, svc.Invalidate(ctx))

	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, fresh.FundingStats.TotalGoal)
	assert.Equal(t, 2, fresh.ProjectCounts[projdomain.StatusPending])
}

func TestGetRecomputesOnCorruptCacheEntry(t *testing.T) {
	svc, projects, users, mr := newTestStats(t)
	seedData(t, projects, users)

	require.NoError(t, mr.Set("admin:stats", "{not json"))

	snap, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3000.0, snap.FundingStats.TotalGoal)
}
