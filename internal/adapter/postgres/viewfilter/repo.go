// Package viewfilter implements persistence of saved view filters in PostgreSQL.
package viewfilter

import (
	"context"
	"fmt"

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

// ListByView returns the saved filters of a view in their stored order.
func (r *Repo) ListByView(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error) {
	q := postgres.Builder().
		Select("id", "field_metadata_id", "operand", "value", "display_value", "definition_label", "view_filter_group_id").
		From("view_filters").
		Where("view_id = ?", viewID).
		OrderBy("position ASC", "created_at ASC")

	rows, err := postgres.QueryBuilt(ctx, postgres.QuerierFromCtx(ctx, r.pool), q)
	if err != nil {
		return nil, postgres.MapError(err, "view_filter", viewID)
	}

	filters, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Filter, error) {
		var (
			f       domain.Filter
			operand string
		)
		err := row.Scan(&f.ID, &f.FieldMetadataID, &operand, &f.Value, &f.DisplayValue, &f.DefinitionLabel, &f.ViewFilterGroupID)
		f.Operand = domain.Operand(operand)
		return f, err
	})
	if err != nil {
		return nil, postgres.MapError(err, "view_filter", viewID)
	}
	return filters, nil
}

// ReplaceForView deletes every saved filter of the view and inserts
// filters in order. Callers run it inside TxManager.RunInTx so readers
// never observe a half-replaced set.
func (r *Repo) ReplaceForView(ctx context.Context, viewID uuid.UUID, filters []domain.Filter) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	del := postgres.Builder().Delete("view_filters").Where("view_id = ?", viewID)
	if _, err := postgres.ExecBuilt(ctx, q, del); err != nil {
		return postgres.MapError(err, "view_filter", viewID)
	}

	if len(filters) == 0 {
		return nil
	}

	ins := postgres.Builder().
		Insert("view_filters").
		Columns("id", "view_id", "field_metadata_id", "operand", "value", "display_value", "definition_label", "view_filter_group_id", "position")

	for i, f := range filters {
		if f.ID == uuid.Nil {
			return domain.NewValidationError(fmt.Sprintf("filters[%d].id", i), "required")
		}
		ins = ins.Values(f.ID, viewID, f.FieldMetadataID, string(f.Operand), f.Value, f.DisplayValue, f.DefinitionLabel, f.ViewFilterGroupID, i)
	}

	if _, err := postgres.ExecBuilt(ctx, q, ins); err != nil {
		return postgres.MapError(err, "view_filter", viewID)
	}
	return nil
}
