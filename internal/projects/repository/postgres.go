package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
)

const projectColumns = `
p.id, p.title, p.description, p.industry, p.stage, p.status,
p.funding_goal, p.current_funding, p.funding_from_other_sources, p.valuation,
p.location, p.team_size, p.tags, p.is_featured,
p.image_url, p.logo_url, p.pitch_deck_url,
p.owner_id, COALESCE(u.first_name || ' ' || u.last_name, ''), COALESCE(u.company, ''), COALESCE(u.email, ''),
p.admin_notes, p.rejected_reason, p.version, p.created_at, p.updated_at, p.approved_at`

const projectFrom = `FROM projects p LEFT JOIN users u ON u.id = p.owner_id`

// PostgresRepository is the durable project store.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ ProjectRepository = (*PostgresRepository)(nil)

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Industry, &p.Stage, &p.Status,
		&p.FundingGoal, &p.CurrentFunding, &p.FundingFromOtherSources, &p.Valuation,
		&p.Location, &p.TeamSize, &p.Tags, &p.IsFeatured,
		&p.ImageURL, &p.LogoURL, &p.PitchDeckURL,
		&p.OwnerID, &p.OwnerName, &p.OwnerCompany, &p.OwnerEmail,
		&p.AdminNotes, &p.RejectedReason, &p.Version, &p.CreatedAt, &p.UpdatedAt, &p.ApprovedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if !p.Status.Valid() {
		return moderation.NewValidationError("status", "unknown project status")
	}
	if p.FundingGoal <= 0 {
		return moderation.NewValidationError("funding_goal", "must be greater than zero")
	}

	const q = `
INSERT INTO projects (
  id, title, description, industry, stage, status,
  funding_goal, current_funding, funding_from_other_sources, valuation,
  location, team_size, tags, is_featured,
  image_url, logo_url, pitch_deck_url, owner_id, admin_notes, rejected_reason
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
RETURNING version, created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.Title, p.Description, p.Industry, p.Stage, string(p.Status),
		p.FundingGoal, p.CurrentFunding, p.FundingFromOtherSources, p.Valuation,
		p.Location, p.TeamSize, p.Tags, p.IsFeatured,
		p.ImageURL, p.LogoURL, p.PitchDeckURL, p.OwnerID, p.AdminNotes, p.RejectedReason,
	).Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` ` + projectFrom + ` WHERE p.id = $1`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) (*Page, error) {
	order, err := orderBy(f.Sort)
	if err != nil {
		return nil, err
	}

	where, args := buildWhere(f)

	var total int
	countQ := `SELECT count(*) ` + projectFrom + ` ` + where
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	listQ := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
		projectColumns, projectFrom, where, order, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, f.Offset())

	rows, err := r.db.Query(ctx, listQ, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Project, 0, f.PageSize)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Page{
		Items:      items,
		TotalCount: total,
		TotalPages: moderation.TotalPages(total, f.PageSize),
	}, nil
}

// versionedErr distinguishes a missing row from a stale version after a
// guarded UPDATE matched nothing.
func (r *PostgresRepository) versionedErr(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return moderation.ErrConflict
}

func (r *PostgresRepository) UpdateEditable(ctx context.Context, id string, version int64, fields domain.EditFields) (*domain.Project, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	set, args := buildEditSet(fields)
	if set == "" {
		return r.Get(ctx, id)
	}

	q := fmt.Sprintf(`UPDATE projects SET %s, version = version + 1, updated_at = now() WHERE id = $1 AND version = $2`, set)
	tag, err := r.db.Exec(ctx, q, append([]any{id, version}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.versionedErr(ctx, id)
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) ApplyModeration(ctx context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.Project, error) {
	const q = `
UPDATE projects
SET status = $3,
    admin_notes = COALESCE($4, admin_notes),
    rejected_reason = COALESCE($5, ''),
    approved_at = CASE WHEN $6 THEN now() ELSE approved_at END,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $2;
`
	tag, err := r.db.Exec(ctx, q, id, version, string(upd.Status), upd.AdminNotes, upd.RejectedReason, upd.SetApprovedAt)
	if err != nil {
		return nil, fmt.Errorf("moderate project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.versionedErr(ctx, id)
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) SetFeatured(ctx context.Context, id string, version int64, featured bool) (*domain.Project, error) {
	const q = `
UPDATE projects
SET is_featured = $3, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2;
`
	tag, err := r.db.Exec(ctx, q, id, version, featured)
	if err != nil {
		return nil, fmt.Errorf("set featured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.versionedErr(ctx, id)
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[domain.Status(status)] = count
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Funding(ctx context.Context) (*FundingTotals, error) {
	const q = `
SELECT COALESCE(SUM(funding_goal), 0),
       COALESCE(SUM(current_funding), 0),
       COALESCE(SUM(funding_from_other_sources), 0)
FROM projects;
`
	var t FundingTotals
	if err := r.db.QueryRow(ctx, q).Scan(&t.TotalGoal, &t.TotalRaised, &t.TotalOtherSources); err != nil {
		return nil, fmt.Errorf("funding totals: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) IndustryBreakdown(ctx context.Context) ([]IndustryCount, error) {
	rows, err := r.db.Query(ctx, `SELECT industry, count(*) FROM projects GROUP BY industry ORDER BY count(*) DESC, industry ASC`)
	if err != nil {
		return nil, fmt.Errorf("industry breakdown: %w", err)
	}
	defer rows.Close()

	var out []IndustryCount
	for rows.Next() {
		var c IndustryCount
		if err := rows.Scan(&c.Industry, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` ` + projectFrom + ` ORDER BY p.created_at DESC, p.id ASC LIMIT $1`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("recent projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
