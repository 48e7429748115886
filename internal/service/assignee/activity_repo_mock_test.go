package assignee

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

var _ activityRepo = &activityRepoMock{}

type activityRepoMock struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	UpdateOneFunc func(ctx context.Context, upd domain.RecordUpdate) error

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		UpdateOne []struct {
			Ctx context.Context
			Upd domain.RecordUpdate
		}
	}
	lockGetByID   sync.RWMutex
	lockUpdateOne sync.RWMutex
}

func (mock *activityRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	if mock.GetByIDFunc == nil {
		panic("activityRepoMock.GetByIDFunc: method is nil but activityRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *activityRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *activityRepoMock) UpdateOne(ctx context.Context, upd domain.RecordUpdate) error {
	if mock.UpdateOneFunc == nil {
		panic("activityRepoMock.UpdateOneFunc: method is nil but activityRepo.UpdateOne was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Upd domain.RecordUpdate
	}{Ctx: ctx, Upd: upd}
	mock.lockUpdateOne.Lock()
	mock.calls.UpdateOne = append(mock.calls.UpdateOne, callInfo)
	mock.lockUpdateOne.Unlock()
	return mock.UpdateOneFunc(ctx, upd)
}

func (mock *activityRepoMock) UpdateOneCalls() []struct {
	Ctx context.Context
	Upd domain.RecordUpdate
} {
	mock.lockUpdateOne.RLock()
	calls := mock.calls.UpdateOne
	mock.lockUpdateOne.RUnlock()
	return calls
}
