package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
	"github.com/raisehub/raisehub-backend/internal/projects/repository"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	messages []notifications.Message
	err      error
}

func (d *fakeDispatcher) Enqueue(_ context.Context, msg notifications.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, msg)
	return nil
}

type fakeStats struct {
	mu          sync.Mutex
	invalidated int
}

func (s *fakeStats) Invalidate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
	return nil
}

func newTestService(t *testing.T) (*ModerationService, *repository.MemoryRepository, *fakeDispatcher, *fakeStats) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	dispatcher := &fakeDispatcher{}
	stats := &fakeStats{}
	svc := NewModerationService(repo, dispatcher, stats, zap.NewNop())
	return svc, repo, dispatcher, stats
}

func seed(t *testing.T, repo *repository.MemoryRepository, id string, status domain.Status) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.Project{
		ID:          id,
		Title:       "Project " + id,
		Status:      status,
		FundingGoal: 10000,
		OwnerEmail:  "owner@example.com",
	}))
}

func TestApproveFromPending(t *testing.T) {
	svc, repo, dispatcher, stats := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)

	p, err := svc.Approve(context.Background(), "p1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, p.Status)
	assert.Equal(t, "looks good", p.AdminNotes)
	require.NotNil(t, p.ApprovedAt)

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, notifications.KindProjectApproved, dispatcher.messages[0].Kind)
	assert.Equal(t, "owner@example.com", dispatcher.messages[0].Recipient)
	assert.Equal(t, 1, stats.invalidated)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, repo, dispatcher, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)
	ctx := context.Background()

	first, err := svc.Approve(ctx, "p1", "")
	require.NoError(t, err)

	second, err := svc.Approve(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, first.Version, second.Version, "repeat approve does not write")
	assert.Len(t, dispatcher.messages, 1, "repeat approve does not notify again")
}

func TestApproveFromTerminalStatusFails(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusFunded)

	_, err := svc.Approve(context.Background(), "p1", "")
	assert.True(t, moderation.IsTransition(err))
}

func TestApproveAfterRejectReconsiders(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusRejected)

	p, err := svc.Approve(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, p.Status)
	assert.Empty(t, p.RejectedReason, "stale rejection reason is cleared")
}

func TestRejectRequiresReason(t *testing.T) {
	svc, repo, dispatcher, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)

	_, err := svc.Reject(context.Background(), "p1", "   ", "")
	assert.True(t, moderation.IsValidation(err))
	assert.Empty(t, dispatcher.messages)
}

func TestRejectRecordsReasonAndNotifies(t *testing.T) {
	svc, repo, dispatcher, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusUnderReview)

	p, err := svc.Reject(context.Background(), "p1", "missing financials", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, p.Status)
	assert.Equal(t, "missing financials", p.RejectedReason)
	assert.Equal(t, "missing financials", p.AdminNotes, "notes default to the reason")

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, notifications.KindProjectRejected, dispatcher.messages[0].Kind)
	assert.Contains(t, dispatcher.messages[0].Body, "missing financials")
}

func TestRejectFromFundedFails(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusFunded)

	_, err := svc.Reject(context.Background(), "p1", "reason", "")
	assert.True(t, moderation.IsTransition(err))
}

func TestDelistApprovedProject(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusApproved)

	p, err := svc.Delist(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, p.Status)
	assert.Equal(t, DelistReason, p.RejectedReason)
}

func TestFeatureRequiresApproved(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)

	_, err := svc.SetFeatured(context.Background(), "p1", true)
	assert.True(t, moderation.IsTransition(err))
}

func TestToggleFeaturedFlips(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusApproved)
	ctx := context.Background()

	p, err := svc.ToggleFeatured(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.IsFeatured)

	p, err = svc.ToggleFeatured(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, p.IsFeatured)
}

func TestEditInvalidatesStats(t *testing.T) {
	svc, repo, _, stats := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)

	title := "Updated"
	p, err := svc.Edit(context.Background(), "p1", domain.EditFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Updated", p.Title)
	assert.Equal(t, 1, stats.invalidated)
}

func TestEditUnknownProject(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Edit(context.Background(), "missing", domain.EditFields{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveAndApprove(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)

	goal := 25000.0
	res, err := svc.SaveAndApprove(context.Background(), "p1", domain.EditFields{FundingGoal: &goal}, "")
	require.NoError(t, err)
	require.Nil(t, res.ApproveErr)
	assert.Equal(t, domain.StatusApproved, res.Project.Status)
	assert.Equal(t, 25000.0, res.Project.FundingGoal)
}

func TestSaveAndApprovePartialFailureKeepsEdit(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusFunded)

	goal := 25000.0
	res, err := svc.SaveAndApprove(context.Background(), "p1", domain.EditFields{FundingGoal: &goal}, "")
	require.NoError(t, err)
	require.NotNil(t, res.ApproveErr)
	assert.True(t, moderation.IsTransition(res.ApproveErr))

	// the edit stuck even though the approve was refused
	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got.FundingGoal)
	assert.Equal(t, domain.StatusFunded, got.Status)
	assert.Equal(t, res.Project.FundingGoal, got.FundingGoal)
}

func TestTransitionSurvivesDispatcherFailure(t *testing.T) {
	svc, repo, dispatcher, _ := newTestService(t)
	seed(t, repo, "p1", domain.StatusPending)
	dispatcher.err = errors.New("redis down")

	p, err := svc.Approve(context.Background(), "p1", "")
	require.NoError(t, err, "enqueue failure never reverts the transition")
	assert.Equal(t, domain.StatusApproved, p.Status)
}
