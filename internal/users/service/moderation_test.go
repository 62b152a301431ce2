package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/notifications"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
	"github.com/raisehub/raisehub-backend/internal/users/repository"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	messages []notifications.Message
}

func (d *fakeDispatcher) Enqueue(_ context.Context, msg notifications.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
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

func newTestService(t *testing.T) (*ModerationService, *repository.MemoryRepository, *fakeDispatcher) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	dispatcher := &fakeDispatcher{}
	svc := NewModerationService(repo, dispatcher, &fakeStats{}, zap.NewNop())
	return svc, repo, dispatcher
}

func seed(t *testing.T, repo *repository.MemoryRepository, id string, status domain.ApprovalStatus) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.User{
		ID:             id,
		Email:          id + "@example.com",
		FirstName:      "Test",
		LastName:       "User",
		Role:           domain.RoleProjectOwner,
		ApprovalStatus: status,
	}))
}

func TestApprovePendingUser(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	seed(t, repo, "u1", domain.ApprovalPending)

	u, err := svc.Approve(context.Background(), "u1", "checked documents")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, u.ApprovalStatus)
	assert.Equal(t, "checked documents", u.AdminNotes)

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, notifications.KindUserWelcome, dispatcher.messages[0].Kind)
	assert.Equal(t, "u1@example.com", dispatcher.messages[0].Recipient)
}

func TestApproveNonPendingUserFails(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	seed(t, repo, "u1", domain.ApprovalApproved)
	seed(t, repo, "u2", domain.ApprovalRejected)

	_, err := svc.Approve(context.Background(), "u1", "")
	assert.True(t, moderation.IsTransition(err))

	// rejected is terminal, no reconsideration
	_, err = svc.Approve(context.Background(), "u2", "")
	assert.True(t, moderation.IsTransition(err))

	assert.Empty(t, dispatcher.messages)
}

func TestRejectPendingUser(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	seed(t, repo, "u1", domain.ApprovalPending)

	u, err := svc.Reject(context.Background(), "u1", "unverifiable identity", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, u.ApprovalStatus)
	assert.Equal(t, "unverifiable identity", u.RejectionReason)

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, notifications.KindUserRejected, dispatcher.messages[0].Kind)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seed(t, repo, "u1", domain.ApprovalPending)

	_, err := svc.Reject(context.Background(), "u1", "  ", "")
	assert.True(t, moderation.IsValidation(err))
}

func TestRejectUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Reject(context.Background(), "missing", "reason", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAdminUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	u, err := svc.Create(context.Background(), CreateParams{
		Email:     "  Founder@Example.COM ",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      domain.RoleInvestor,
	})
	require.NoError(t, err)
	assert.Equal(t, "founder@example.com", u.Email, "email is trimmed and lowercased")
	assert.Equal(t, domain.ApprovalApproved, u.ApprovalStatus, "admin-created users skip the queue")
	assert.True(t, u.IsActive)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Email: "  ", Role: domain.RoleInvestor})
	assert.True(t, moderation.IsValidation(err))

	_, err = svc.Create(ctx, CreateParams{Email: "a@b.com", Role: "superuser"})
	assert.True(t, moderation.IsValidation(err))
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Email: "dup@example.com", Role: domain.RoleInvestor})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateParams{Email: "DUP@example.com", Role: domain.RoleInvestor})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestBulkApproveIndependentOutcomes(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	seed(t, repo, "u1", domain.ApprovalPending)
	seed(t, repo, "u2", domain.ApprovalRejected)
	seed(t, repo, "u3", domain.ApprovalPending)

	res, err := svc.BulkApprove(context.Background(), []string{"u1", "u2", "u3", "missing"}, "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.ApprovedCount)
	assert.Equal(t, 2, res.EmailsSent)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "u2", res.Failures[0].ID)
	assert.Equal(t, "missing", res.Failures[1].ID)
	assert.Len(t, dispatcher.messages, 2)

	// the pending ones actually moved
	u1, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, u1.ApprovalStatus)
}

func TestBulkApproveEmptyIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.BulkApprove(context.Background(), nil, "")
	assert.True(t, moderation.IsValidation(err))
}
