package domain

import (
	"strings"

	"github.com/raisehub/raisehub-backend/internal/moderation"
)

// Validate checks the numeric and text constraints on an edit before any of
// it is applied. Edits are atomic: a single bad field rejects the whole set.
func (f EditFields) Validate() error {
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return moderation.NewValidationError("title", "must not be empty")
	}
	if f.FundingGoal != nil && *f.FundingGoal <= 0 {
		return moderation.NewValidationError("funding_goal", "must be greater than zero")
	}
	if f.CurrentFunding != nil && *f.CurrentFunding < 0 {
		return moderation.NewValidationError("current_funding", "must not be negative")
	}
	if f.FundingFromOtherSources != nil && *f.FundingFromOtherSources < 0 {
		return moderation.NewValidationError("funding_from_other_sources", "must not be negative")
	}
	if f.Valuation != nil && *f.Valuation < 0 {
		return moderation.NewValidationError("valuation", "must not be negative")
	}
	if f.TeamSize != nil && *f.TeamSize < 1 {
		return moderation.NewValidationError("team_size", "must be at least 1")
	}
	return nil
}

// Apply copies the set fields onto p. Callers must Validate first.
func (f EditFields) Apply(p *Project) {
	if f.Title != nil {
		p.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Industry != nil {
		p.Industry = *f.Industry
	}
	if f.Stage != nil {
		p.Stage = *f.Stage
	}
	if f.FundingGoal != nil {
		p.FundingGoal = *f.FundingGoal
	}
	if f.CurrentFunding != nil {
		p.CurrentFunding = *f.CurrentFunding
	}
	if f.FundingFromOtherSources != nil {
		p.FundingFromOtherSources = *f.FundingFromOtherSources
	}
	if f.Valuation != nil {
		v := *f.Valuation
		p.Valuation = &v
	}
	if f.Location != nil {
		p.Location = *f.Location
	}
	if f.TeamSize != nil {
		p.TeamSize = *f.TeamSize
	}
	if f.Tags != nil {
		p.Tags = append([]string(nil), (*f.Tags)...)
	}
	if f.IsFeatured != nil {
		p.IsFeatured = *f.IsFeatured
	}
	if f.ImageURL != nil {
		p.ImageURL = *f.ImageURL
	}
	if f.LogoURL != nil {
		p.LogoURL = *f.LogoURL
	}
	if f.PitchDeckURL != nil {
		p.PitchDeckURL = *f.PitchDeckURL
	}
}
