package assignee

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)

	SearchFunc func(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)

	calls struct {
		GetByIDs []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
		Search []struct {
			Ctx    context.Context
			Filter domain.UserFilter
		}
	}
	lockGetByIDs sync.RWMutex
	lockSearch   sync.RWMutex
}

func (mock *userRepoMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if mock.GetByIDsFunc == nil {
		panic("userRepoMock.GetByIDsFunc: method is nil but userRepo.GetByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockGetByIDs.Lock()
	mock.calls.GetByIDs = append(mock.calls.GetByIDs, callInfo)
	mock.lockGetByIDs.Unlock()
	return mock.GetByIDsFunc(ctx, ids)
}

func (mock *userRepoMock) GetByIDsCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	mock.lockGetByIDs.RLock()
	calls := mock.calls.GetByIDs
	mock.lockGetByIDs.RUnlock()
	return calls
}

func (mock *userRepoMock) Search(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if mock.SearchFunc == nil {
		panic("userRepoMock.SearchFunc: method is nil but userRepo.Search was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.UserFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, filter)
}

func (mock *userRepoMock) SearchCalls() []struct {
	Ctx    context.Context
	Filter domain.UserFilter
} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}
