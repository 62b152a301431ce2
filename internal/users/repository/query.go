package repository

import (
	"fmt"
	"strings"

	"github.com/raisehub/raisehub-backend/internal/moderation"
)

var sortColumns = map[string]string{
	"":           "created_at DESC",
	"created_at": "created_at DESC",
	"name":       "first_name ASC, last_name ASC",
	"email":      "email ASC",
	"status":     "approval_status ASC",
}

func buildWhere(f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR company ILIKE $%d)",
			n, n, n, n))
	}
	if f.Role != "" {
		args = append(args, string(f.Role))
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		clauses = append(clauses, fmt.Sprintf("approval_status = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(sort string) (string, error) {
	col, ok := sortColumns[sort]
	if !ok {
		return "", moderation.NewValidationError("sort", "unknown sort key")
	}
	return "ORDER BY " + col + ", id ASC", nil
}
