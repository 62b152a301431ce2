package repository

import (
	"fmt"
	"strings"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
)

// sortColumns whitelists the admin listing sort keys. Every ordering gets a
// deterministic p.id tiebreak appended by orderBy.
var sortColumns = map[string]string{
	"":             "p.created_at DESC",
	"created_at":   "p.created_at DESC",
	"title":        "p.title ASC",
	"status":       "p.status ASC",
	"funding_goal": "p.funding_goal DESC",
	"owner":        "u.first_name ASC, u.last_name ASC",
}

// buildWhere renders the filter predicates as a WHERE clause with positional
// placeholders starting at $1. AND semantics across predicates.
func buildWhere(f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.description ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.company ILIKE $%d)",
			n, n, n, n, n))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		clauses = append(clauses, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Industry != "" {
		args = append(args, f.Industry)
		clauses = append(clauses, fmt.Sprintf("p.industry = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// orderBy resolves a caller sort key against the whitelist.
func orderBy(sort string) (string, error) {
	col, ok := sortColumns[sort]
	if !ok {
		return "", moderation.NewValidationError("sort", "unknown sort key")
	}
	return "ORDER BY " + col + ", p.id ASC", nil
}

// buildEditSet renders the SET fragments for the fields present in an edit.
// Placeholders start after the id and version arguments ($1, $2).
func buildEditSet(f domain.EditFields) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)+2))
	}

	if f.Title != nil {
		add("title", strings.TrimSpace(*f.Title))
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.Industry != nil {
		add("industry", *f.Industry)
	}
	if f.Stage != nil {
		add("stage", *f.Stage)
	}
	if f.FundingGoal != nil {
		add("funding_goal", *f.FundingGoal)
	}
	if f.CurrentFunding != nil {
		add("current_funding", *f.CurrentFunding)
	}
	if f.FundingFromOtherSources != nil {
		add("funding_from_other_sources", *f.FundingFromOtherSources)
	}
	if f.Valuation != nil {
		add("valuation", *f.Valuation)
	}
	if f.Location != nil {
		add("location", *f.Location)
	}
	if f.TeamSize != nil {
		add("team_size", *f.TeamSize)
	}
	if f.Tags != nil {
		add("tags", *f.Tags)
	}
	if f.IsFeatured != nil {
		add("is_featured", *f.IsFeatured)
	}
	if f.ImageURL != nil {
		add("image_url", *f.ImageURL)
	}
	if f.LogoURL != nil {
		add("logo_url", *f.LogoURL)
	}
	if f.PitchDeckURL != nil {
		add("pitch_deck_url", *f.PitchDeckURL)
	}

	return strings.Join(sets, ", "), args
}
