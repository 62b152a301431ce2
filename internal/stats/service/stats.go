package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	projdomain "github.com/raisehub/raisehub-backend/internal/projects/domain"
	projrepo "github.com/raisehub/raisehub-backend/internal/projects/repository"
	userdomain "github.com/raisehub/raisehub-backend/internal/users/domain"
	userrepo "github.com/raisehub/raisehub-backend/internal/users/repository"
)

const (
	cacheKey       = "admin:stats"
	recentActivity = 5
)

// RecentActivity holds the latest submissions for the dashboard.
type RecentActivity struct {
	Projects []projdomain.Project `json:"projects"`
	Users    []userdomain.User    `json:"users"`
}

// Snapshot is a point-in-time aggregate over the entity store. It is derived
// data, never the source of truth.
type Snapshot struct {
	ProjectCounts     map[projdomain.Status]int         `json:"project_counts"`
	UserCounts        map[userdomain.ApprovalStatus]int `json:"user_counts"`
	FundingStats      *projrepo.FundingTotals           `json:"funding_stats"`
	CategoryBreakdown []projrepo.IndustryCount          `json:"category_breakdown"`
	RecentActivity    RecentActivity                    `json:"recent_activity"`
	GeneratedAt       time.Time                         `json:"generated_at"`
}

// StatsService recomputes summary aggregates on demand and caches the
// snapshot in Redis. Workflow mutations invalidate the cache; freshness
// relative to concurrent writers is eventual.
type StatsService struct {
	projects projrepo.ProjectRepository
	users    userrepo.UserRepository
	cache    *redis.Client
	ttl      time.Duration
	log      *zap.Logger
}

func NewStatsService(projects projrepo.ProjectRepository, users userrepo.UserRepository, cache *redis.Client, ttl time.Duration, log *zap.Logger) *StatsService {
	return &StatsService{
		projects: projects,
		users:    users,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

// Recompute runs a single-pass aggregation over the entity store and caches
// the result.
func (s *StatsService) Recompute(ctx context.Context) (*Snapshot, error) {
	projectCounts, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("project counts: %w", err)
	}
	userCounts, err := s.users.CountByApproval(ctx)
	if err != nil {
		return nil, fmt.Errorf("user counts: %w", err)
	}
	funding, err := s.projects.Funding(ctx)
	if err != nil {
		return nil, fmt.Errorf("funding stats: %w", err)
	}
	breakdown, err := s.projects.IndustryBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	recentProjects, err := s.projects.Recent(ctx, recentActivity)
	if err != nil {
		return nil, fmt.Errorf("recent projects: %w", err)
	}
	recentUsers, err := s.users.Recent(ctx, recentActivity)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}

	snap := &Snapshot{
		ProjectCounts:     projectCounts,
		UserCounts:        userCounts,
		FundingStats:      funding,
		CategoryBreakdown: breakdown,
		RecentActivity: RecentActivity{
			Projects: recentProjects,
			Users:    recentUsers,
		},
		GeneratedAt: time.Now().UTC(),
	}

	s.store(ctx, snap)
	return snap, nil
}

// Get returns the cached snapshot, recomputing on a miss.
func (s *StatsService) Get(ctx context.Context) (*Snapshot, error) {
	data, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var snap Snapshot
		if uerr := json.Unmarshal([]byte(data), &snap); uerr == nil {
			return &snap, nil
		}
		// corrupt cache entry, recompute below
		s.log.Warn("discarding unreadable stats cache entry")
	} else if err != redis.Nil {
		s.log.Warn("stats cache read failed", zap.Error(err))
	}

	return s.Recompute(ctx)
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *StatsService) Invalidate(ctx context.Context) error {
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}

func (s *StatsService) store(ctx context.Context, snap *Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("marshal stats snapshot", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.log.Warn("stats cache write failed", zap.Error(err))
	}
}
