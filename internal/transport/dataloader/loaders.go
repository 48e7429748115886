package dataloader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Workspace members by UserID
// ---------------------------------------------------------------------------

func newMembersBatchFn(repo memberRepo) dataloader.BatchFunc[uuid.UUID, []domain.WorkspaceMember] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.WorkspaceMember] {
		members, err := repo.GetByUserIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.WorkspaceMember](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.WorkspaceMember, len(keys))
		for _, m := range members {
			grouped[m.UserID] = append(grouped[m.UserID], m)
		}

		return mapResults(keys, grouped, emptySlice[domain.WorkspaceMember])
	}
}

// ---------------------------------------------------------------------------
// Activity by ID
// ---------------------------------------------------------------------------

// newActivityBatchFn resolves each key on its own: activities are read by
// primary key and a batch rarely holds more than one.
func newActivityBatchFn(repo activityRepo) dataloader.BatchFunc[uuid.UUID, *domain.Activity] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Activity] {
		results := make([]*dataloader.Result[*domain.Activity], len(keys))
		for i, key := range keys {
			a, err := repo.GetByID(ctx, key)
			results[i] = &dataloader.Result[*domain.Activity]{Data: a, Error: err}
		}
		return results
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}

// firstError returns the first non-nil error of a LoadMany call.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func wrapLoad(what string, err error) error {
	return fmt.Errorf("load %s: %w", what, err)
}
