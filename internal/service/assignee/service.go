// Package assignee implements the activity assignee picker: searching users
// to pick from and persisting the picked user as the activity's assignee.
package assignee

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// DefaultSearchLimit is the page size of a picker search when none is given.
const DefaultSearchLimit = 60

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userRepo interface {
	Search(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type memberRepo interface {
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error)
}

type activityRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	UpdateOne(ctx context.Context, upd domain.RecordUpdate) error
}

type recorder interface {
	Assignment(outcome string)
	MembershipMiss()
}

// Assignment outcomes reported to the recorder.
const (
	OutcomeAssigned = "assigned"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

type noopRecorder struct{}

func (noopRecorder) Assignment(string) {}
func (noopRecorder) MembershipMiss()   {}

// Service provides assignee search and assignment.
type Service struct {
	users       userRepo
	members     memberRepo
	activities  activityRepo
	rec         recorder
	searchLimit int
	log         *slog.Logger
}

// NewService creates an assignee service. rec may be nil; searchLimit <= 0
// falls back to DefaultSearchLimit.
func NewService(
	log *slog.Logger,
	users userRepo,
	members memberRepo,
	activities activityRepo,
	rec recorder,
	searchLimit int,
) *Service {
	if rec == nil {
		rec = noopRecorder{}
	}
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &Service{
		users:       users,
		members:     members,
		activities:  activities,
		rec:         rec,
		searchLimit: searchLimit,
		log:         log.With("service", "assignee"),
	}
}
