// Package dataloader provides per-request DataLoaders that batch workspace
// member and activity reads issued while serving one HTTP request.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type memberRepo interface {
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error)
}

type activityRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	UpdateOne(ctx context.Context, upd domain.RecordUpdate) error
}

// Repos holds the repositories the loaders read from.
type Repos struct {
	Member   memberRepo
	Activity activityRepo
}

// ---------------------------------------------------------------------------
// Loaders
// ---------------------------------------------------------------------------

// Loaders contains the per-request DataLoaders.
type Loaders struct {
	MembersByUserID *dataloader.Loader[uuid.UUID, []domain.WorkspaceMember]
	ActivityByID    *dataloader.Loader[uuid.UUID, *domain.Activity]
}

// NewLoaders creates a new set of DataLoaders backed by repos.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		MembersByUserID: newLoader(newMembersBatchFn(repos.Member)),
		ActivityByID:    newLoader(newActivityBatchFn(repos.Activity)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context, or nil outside a request
// served through Middleware.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}
