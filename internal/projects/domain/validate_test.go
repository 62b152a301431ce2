package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/raisehub-backend/internal/moderation"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		fields EditFields
	}{
		{"empty title", EditFields{Title: strPtr("   ")}},
		{"zero funding goal", EditFields{FundingGoal: f64Ptr(0)}},
		{"negative funding goal", EditFields{FundingGoal: f64Ptr(-100)}},
		{"negative current funding", EditFields{CurrentFunding: f64Ptr(-1)}},
		{"negative other sources", EditFields{FundingFromOtherSources: f64Ptr(-1)}},
		{"negative valuation", EditFields{Valuation: f64Ptr(-1)}},
		{"zero team size", EditFields{TeamSize: intPtr(0)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			assert.True(t, moderation.IsValidation(err))
		})
	}
}

func TestValidateAcceptsEmptyEdit(t *testing.T) {
	assert.NoError(t, EditFields{}.Validate())
}

func TestApplyOnlyTouchesSetFields(t *testing.T) {
	p := &Project{
		Title:       "Original",
		Description: "desc",
		FundingGoal: 1000,
		TeamSize:    3,
		Status:      StatusPending,
	}

	fields := EditFields{
		Title:       strPtr("  Renamed  "),
		FundingGoal: f64Ptr(5000),
	}
	require.NoError(t, fields.Validate())
	fields.Apply(p)

	assert.Equal(t, "Renamed", p.Title, "title is trimmed")
	assert.Equal(t, 5000.0, p.FundingGoal)
	assert.Equal(t, "desc", p.Description)
	assert.Equal(t, 3, p.TeamSize)
	assert.Equal(t, StatusPending, p.Status, "edits never move the status")
}

func TestApplyCopiesTags(t *testing.T) {
	tags := []string{"fintech", "b2b"}
	p := &Project{}
	EditFields{Tags: &tags}.Apply(p)

	tags[0] = "mutated"
	assert.Equal(t, []string{"fintech", "b2b"}, p.Tags)
}
