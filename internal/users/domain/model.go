package domain

import "time"

// Role is fixed at creation and never mutated by the moderation workflow.
type Role string

const (
	RoleProjectOwner Role = "project_owner"
	RoleInvestor     Role = "investor"
	RoleAdmin        Role = "admin"
)

var AllRoles = []Role{RoleProjectOwner, RoleInvestor, RoleAdmin}

func (r Role) Valid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ApprovalStatus is the moderation status of a registered user.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

var AllApprovalStatuses = []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalRejected}

func (s ApprovalStatus) Valid() bool {
	for _, v := range AllApprovalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Moderatable reports whether approve/reject may be applied. The user state
// machine only moves out of pending; rejected is terminal.
func (s ApprovalStatus) Moderatable() bool {
	return s == ApprovalPending
}

// User is a registered platform user under approval workflow.
type User struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Company         string         `json:"company,omitempty"`
	Location        string         `json:"location,omitempty"`
	Role            Role           `json:"role"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	IsVerified      bool           `json:"is_verified"`
	IsActive        bool           `json:"is_active"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	AdminNotes      string         `json:"admin_notes,omitempty"`
	Version         int64          `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// FullName joins first and last name for display in admin listings.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// ModerationUpdate is the workflow-managed slice of a user.
type ModerationUpdate struct {
	ApprovalStatus  ApprovalStatus
	RejectionReason *string
	AdminNotes      *string
}
