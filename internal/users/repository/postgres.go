package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
)

const userColumns = `
id, email, first_name, last_name, company, location, role, approval_status,
is_verified, is_active, rejection_reason, admin_notes, version, created_at, updated_at`

// PostgresRepository is the durable user store.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ UserRepository = (*PostgresRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Company, &u.Location,
		&u.Role, &u.ApprovalStatus, &u.IsVerified, &u.IsActive,
		&u.RejectionReason, &u.AdminNotes, &u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if !u.Role.Valid() {
		return moderation.NewValidationError("role", "unknown role")
	}
	if !u.ApprovalStatus.Valid() {
		return moderation.NewValidationError("approval_status", "unknown approval status")
	}

	const q = `
INSERT INTO users (
  id, email, first_name, last_name, company, location, role, approval_status,
  is_verified, is_active, rejection_reason, admin_notes
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING version, created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		u.ID, u.Email, u.FirstName, u.LastName, u.Company, u.Location,
		string(u.Role), string(u.ApprovalStatus), u.IsVerified, u.IsActive,
		u.RejectionReason, u.AdminNotes,
	).Scan(&u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// unique violation on email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) (*Page, error) {
	order, err := orderBy(f.Sort)
	if err != nil {
		return nil, err
	}

	where, args := buildWhere(f)

	var total int
	countQ := `SELECT count(*) FROM users ` + where
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	listQ := fmt.Sprintf("SELECT %s FROM users %s %s LIMIT $%d OFFSET $%d",
		userColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, f.Offset())

	rows, err := r.db.Query(ctx, listQ, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]domain.User, 0, f.PageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
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

func (r *PostgresRepository) versionedErr(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return moderation.ErrConflict
}

func (r *PostgresRepository) ApplyModeration(ctx context.Context, id string, version int64, upd domain.ModerationUpdate) (*domain.User, error) {
	const q = `
UPDATE users
SET approval_status = $3,
    rejection_reason = COALESCE($4, ''),
    admin_notes = COALESCE($5, admin_notes),
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $2
RETURNING ` + userColumns + `;`

	u, err := scanUser(r.db.QueryRow(ctx, q, id, version, string(upd.ApprovalStatus), upd.RejectionReason, upd.AdminNotes))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, r.versionedErr(ctx, id)
		}
		return nil, fmt.Errorf("moderate user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) CountByApproval(ctx context.Context) (map[domain.ApprovalStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT approval_status, count(*) FROM users GROUP BY approval_status`)
	if err != nil {
		return nil, fmt.Errorf("count by approval: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ApprovalStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[domain.ApprovalStatus(status)] = count
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC LIMIT $1`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
