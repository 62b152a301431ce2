package http

import (
	"strings"

	"github.com/raisehub/raisehub-backend/internal/projects/domain"
)

type approveReq struct {
	AdminNotes string `json:"admin_notes"`
}

type rejectReq struct {
	RejectionReason string `json:"rejection_reason"`
	AdminNotes      string `json:"admin_notes"`
}

type featuredReq struct {
	IsFeatured *bool `json:"is_featured"`
}

// editReq carries the editable project fields. Tags arrive as a
// comma-joined string from the admin form.
type editReq struct {
	Title                   *string  `json:"title"`
	Description             *string  `json:"description"`
	Industry                *string  `json:"industry"`
	Stage                   *string  `json:"stage"`
	FundingGoal             *float64 `json:"funding_goal"`
	CurrentFunding          *float64 `json:"current_funding"`
	FundingFromOtherSources *float64 `json:"funding_from_other_sources"`
	Valuation               *float64 `json:"valuation"`
	Location                *string  `json:"location"`
	TeamSize                *int     `json:"team_size"`
	Tags                    *string  `json:"tags"`
	IsFeatured              *bool    `json:"is_featured"`
	ImageURL                *string  `json:"image_url"`
	LogoURL                 *string  `json:"logo_url"`
	PitchDeckURL            *string  `json:"pitch_deck_url"`
}

func (r editReq) fields() domain.EditFields {
	f := domain.EditFields{
		Title:                   r.Title,
		Description:             r.Description,
		Industry:                r.Industry,
		Stage:                   r.Stage,
		FundingGoal:             r.FundingGoal,
		CurrentFunding:          r.CurrentFunding,
		FundingFromOtherSources: r.FundingFromOtherSources,
		Valuation:               r.Valuation,
		Location:                r.Location,
		TeamSize:                r.TeamSize,
		IsFeatured:              r.IsFeatured,
		ImageURL:                r.ImageURL,
		LogoURL:                 r.LogoURL,
		PitchDeckURL:            r.PitchDeckURL,
	}
	if r.Tags != nil {
		tags := splitTags(*r.Tags)
		f.Tags = &tags
	}
	return f
}

// splitTags parses the comma-joined tag string, preserving order and
// dropping empties.
func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
