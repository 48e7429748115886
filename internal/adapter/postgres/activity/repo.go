// Package activity implements activity reads and relation updates in PostgreSQL.
package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// relationColumns maps connectable relation fields of an activity to their
// foreign key columns.
var relationColumns = map[string]string{
	domain.FieldAssignee:                "assignee_id",
	domain.FieldWorkspaceMemberAssignee: "workspace_member_assignee_id",
}

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns the activity with its assigned workspace member, if any.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	q := postgres.Builder().
		Select(
			"a.id", "a.title", "a.type", "a.assignee_id", "a.workspace_member_assignee_id",
			"a.created_at", "a.updated_at",
			"m.id", "m.user_id", "m.first_name", "m.last_name", "m.created_at",
		).
		From("activities a").
		LeftJoin("workspace_members m ON m.id = a.workspace_member_assignee_id").
		Where("a.id = ?", id)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var (
		a         domain.Activity
		typ       string
		memberID  pgtype.UUID
		memberUID pgtype.UUID
		first     pgtype.Text
		last      pgtype.Text
		joinedAt  pgtype.Timestamptz
	)
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.Title, &typ, &a.AssigneeID, &a.WorkspaceMemberAssigneeID,
		&a.CreatedAt, &a.UpdatedAt,
		&memberID, &memberUID, &first, &last, &joinedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "activity", id)
	}

	a.Type = domain.ActivityType(typ)
	if memberID.Valid {
		a.AccountOwner = &domain.WorkspaceMember{
			ID:        memberID.Bytes,
			UserID:    memberUID.Bytes,
			FirstName: first.String,
			LastName:  last.String,
			CreatedAt: joinedAt.Time,
		}
	}

	return &a, nil
}

// ---------------------------------------------------------------------------
// Record update
// ---------------------------------------------------------------------------

// UpdateOne applies the connect directives of upd to one activity. A
// directive with a nil id clears the relation. Unknown objects or fields
// are rejected with a validation error; missing targets map to ErrNotFound.
func (r *Repo) UpdateOne(ctx context.Context, upd domain.RecordUpdate) error {
	if upd.ObjectNameSingular != domain.ObjectActivity {
		return domain.NewValidationError("object_name_singular", fmt.Sprintf("unsupported object %q", upd.ObjectNameSingular))
	}
	if upd.IDToUpdate == uuid.Nil {
		return domain.NewValidationError("id_to_update", "required")
	}
	if len(upd.Connections) == 0 {
		return domain.NewValidationError("connections", "at least one relation is required")
	}

	fields := make([]string, 0, len(upd.Connections))
	for field := range upd.Connections {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	q := postgres.Builder().
		Update("activities").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", upd.IDToUpdate)

	for _, field := range fields {
		col, ok := relationColumns[field]
		if !ok {
			return domain.NewValidationError("connections."+field, "unknown relation field")
		}
		q = q.Set(col, upd.Connections[field].ID)
	}

	tag, err := postgres.ExecBuilt(ctx, postgres.QuerierFromCtx(ctx, r.pool), q)
	if err != nil {
		return postgres.MapError(err, "activity", upd.IDToUpdate)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", upd.IDToUpdate, domain.ErrNotFound)
	}

	return nil
}
