// Package workspacemember implements workspace membership lookups in PostgreSQL.
package workspacemember

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByUserIDs returns every membership of the given users, oldest first
// within each user.
func (r *Repo) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error) {
	if len(userIDs) == 0 {
		return []domain.WorkspaceMember{}, nil
	}

	q := postgres.Builder().
		Select("id", "user_id", "first_name", "last_name", "created_at").
		From("workspace_members").
		Where("user_id = ANY(?::uuid[])", userIDs).
		OrderBy("user_id", "created_at ASC", "id ASC")

	rows, err := postgres.QueryBuilt(ctx, postgres.QuerierFromCtx(ctx, r.pool), q)
	if err != nil {
		return nil, postgres.MapError(err, "workspace_member", userIDs)
	}

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.WorkspaceMember, error) {
		var m domain.WorkspaceMember
		err := row.Scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, postgres.MapError(err, "workspace_member", userIDs)
	}
	return members, nil
}
