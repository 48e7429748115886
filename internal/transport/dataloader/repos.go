package dataloader

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// Members reads workspace members through the request's loaders and falls
// back to the repository outside a request.
type Members struct {
	repo memberRepo
}

func NewMembers(repo memberRepo) *Members {
	return &Members{repo: repo}
}

// GetByUserIDs returns members of userIDs in key order, each user's members
// in the order the repository returned them.
func (m *Members) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error) {
	l := FromContext(ctx)
	if l == nil {
		return m.repo.GetByUserIDs(ctx, userIDs)
	}

	groups, errs := l.MembersByUserID.LoadMany(ctx, userIDs)()
	if err := firstError(errs); err != nil {
		return nil, wrapLoad("workspace members", err)
	}

	var out []domain.WorkspaceMember
	for _, g := range groups {
		out = append(out, g...)
	}
	return out, nil
}

// FirstByUserID returns the first workspace member of userID, or nil when
// the user has none. Concurrent calls within one request share a batch.
func (m *Members) FirstByUserID(ctx context.Context, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	var (
		members []domain.WorkspaceMember
		err     error
	)
	if l := FromContext(ctx); l != nil {
		members, err = l.MembersByUserID.Load(ctx, userID)()
	} else {
		members, err = m.repo.GetByUserIDs(ctx, []uuid.UUID{userID})
	}
	if err != nil {
		return nil, wrapLoad("workspace members", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	first := members[0]
	return &first, nil
}

// Activities reads activities through the request's loaders. UpdateOne goes
// to the repository and evicts the cached activity.
type Activities struct {
	repo activityRepo
}

func NewActivities(repo activityRepo) *Activities {
	return &Activities{repo: repo}
}

func (a *Activities) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	l := FromContext(ctx)
	if l == nil {
		return a.repo.GetByID(ctx, id)
	}

	act, err := l.ActivityByID.Load(ctx, id)()
	if err != nil {
		return nil, err
	}
	return act, nil
}

func (a *Activities) UpdateOne(ctx context.Context, upd domain.RecordUpdate) error {
	err := a.repo.UpdateOne(ctx, upd)
	if l := FromContext(ctx); l != nil {
		l.ActivityByID.Clear(ctx, upd.IDToUpdate)
	}
	return err
}
