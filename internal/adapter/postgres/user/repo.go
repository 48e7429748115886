// Package user implements read access to CRM users in PostgreSQL.
package user

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

const (
	defaultLimit = 60
	maxLimit     = 200
)

var columns = []string{
	"id", "email", "display_name", "first_name", "last_name", "avatar_url", "created_at", "updated_at",
}

// Repo provides user queries backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Search returns users matching filter ordered by first name, then id.
func (r *Repo) Search(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	q := postgres.Builder().
		Select(columns...).
		From("users").
		OrderBy("first_name ASC", "id ASC").
		Limit(uint64(clampLimit(filter.Limit)))

	if text := strings.TrimSpace(filter.Search); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}
	if len(filter.IDs) > 0 {
		q = q.Where("id = ANY(?::uuid[])", filter.IDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		q = q.Where("NOT (id = ANY(?::uuid[]))", filter.ExcludeIDs)
	}
	if filter.After != nil {
		q = q.Where("(first_name, id) > (?, ?)", filter.After.FirstName, filter.After.ID)
	}

	rows, err := postgres.QueryBuilt(ctx, postgres.QuerierFromCtx(ctx, r.pool), q)
	if err != nil {
		return nil, postgres.MapError(err, "user", "search")
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, postgres.MapError(err, "user", "search")
	}
	return users, nil
}

// GetByIDs returns the users with the given ids in unspecified order.
// Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	q := postgres.Builder().
		Select(columns...).
		From("users").
		Where("id = ANY(?::uuid[])", ids)

	rows, err := postgres.QueryBuilt(ctx, postgres.QuerierFromCtx(ctx, r.pool), q)
	if err != nil {
		return nil, postgres.MapError(err, "user", ids)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, postgres.MapError(err, "user", ids)
	}
	return users, nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.FirstName, &u.LastName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
