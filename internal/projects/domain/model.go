package domain

import "time"

// Status is the moderation status of a project. Exactly one is active at a
// time; transitions are governed by the action tables below.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusSubmitted     Status = "submitted"
	StatusPending       Status = "pending"
	StatusUnderReview   Status = "under_review"
	StatusPendingUpdate Status = "pending_update"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusFunded        Status = "funded"
	StatusCompleted     Status = "completed"
)

// AllStatuses lists every valid project status.
var AllStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusPending,
	StatusUnderReview,
	StatusPendingUpdate,
	StatusApproved,
	StatusRejected,
	StatusFunded,
	StatusCompleted,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no admin-driven transition is defined from s.
// Funded and completed are reached by payment completion, not moderation.
func (s Status) Terminal() bool {
	return s == StatusFunded || s == StatusCompleted
}

// Action is an admin moderation action on a project.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionFeature Action = "feature"
)

// transitions is the explicit state machine: the set of statuses each action
// may be applied from. Approving an already-approved project is not listed
// here because it is an idempotent no-op handled by the workflow service.
var transitions = map[Action]map[Status]bool{
	ActionApprove: {
		StatusDraft:         true,
		StatusSubmitted:     true,
		StatusPending:       true,
		StatusUnderReview:   true,
		StatusPendingUpdate: true,
		StatusRejected:      true, // reconsideration
	},
	ActionReject: {
		StatusDraft:         true,
		StatusSubmitted:     true,
		StatusPending:       true,
		StatusUnderReview:   true,
		StatusPendingUpdate: true,
		StatusApproved:      true, // delist
		StatusRejected:      true, // reason update
	},
	ActionFeature: {
		StatusApproved: true,
	},
}

// Allowed reports whether action may be applied to a project in status from.
func Allowed(action Action, from Status) bool {
	return transitions[action][from]
}

// Project is a submitted fundraising project under moderation.
type Project struct {
	ID                      string     `json:"id"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Industry                string     `json:"industry"`
	Stage                   string     `json:"stage"`
	Status                  Status     `json:"status"`
	FundingGoal             float64    `json:"funding_goal"`
	CurrentFunding          float64    `json:"current_funding"`
	FundingFromOtherSources float64    `json:"funding_from_other_sources"`
	Valuation               *float64   `json:"valuation,omitempty"`
	Location                string     `json:"location"`
	TeamSize                int        `json:"team_size"`
	Tags                    []string   `json:"tags"`
	IsFeatured              bool       `json:"is_featured"`
	ImageURL                string     `json:"image_url,omitempty"`
	LogoURL                 string     `json:"logo_url,omitempty"`
	PitchDeckURL            string     `json:"pitch_deck_url,omitempty"`
	OwnerID                 string     `json:"owner_id"`
	OwnerName               string     `json:"owner_name,omitempty"`
	OwnerCompany            string     `json:"owner_company,omitempty"`
	OwnerEmail              string     `json:"owner_email,omitempty"`
	AdminNotes              string     `json:"admin_notes,omitempty"`
	RejectedReason          string     `json:"rejected_reason,omitempty"`
	Version                 int64      `json:"version"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	ApprovedAt              *time.Time `json:"approved_at,omitempty"`
}

// EditFields carries the non-workflow fields an authorized edit may change.
// Status, approved_at, rejected_reason and admin_notes are deliberately
// absent: those move only through the workflow service.
type EditFields struct {
	Title                   *string
	Description             *string
	Industry                *string
	Stage                   *string
	FundingGoal             *float64
	CurrentFunding          *float64
	FundingFromOtherSources *float64
	Valuation               *float64
	Location                *string
	TeamSize                *int
	Tags                    *[]string
	IsFeatured              *bool
	ImageURL                *string
	LogoURL                 *string
	PitchDeckURL            *string
}

// ModerationUpdate is the workflow-managed slice of a project. Only the
// workflow service builds these.
type ModerationUpdate struct {
	Status         Status
	AdminNotes     *string
	RejectedReason *string
	SetApprovedAt  bool
}
