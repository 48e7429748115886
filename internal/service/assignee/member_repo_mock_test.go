package assignee

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

var _ memberRepo = &memberRepoMock{}

type memberRepoMock struct {
	GetByUserIDsFunc func(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error)

	calls struct {
		GetByUserIDs []struct {
			Ctx     context.Context
			UserIDs []uuid.UUID
		}
	}
	lockGetByUserIDs sync.RWMutex
}

func (mock *memberRepoMock) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error) {
	if mock.GetByUserIDsFunc == nil {
		panic("memberRepoMock.GetByUserIDsFunc: method is nil but memberRepo.GetByUserIDs was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		UserIDs []uuid.UUID
	}{Ctx: ctx, UserIDs: userIDs}
	mock.lockGetByUserIDs.Lock()
	mock.calls.GetByUserIDs = append(mock.calls.GetByUserIDs, callInfo)
	mock.lockGetByUserIDs.Unlock()
	return mock.GetByUserIDsFunc(ctx, userIDs)
}

func (mock *memberRepoMock) GetByUserIDsCalls() []struct {
	Ctx     context.Context
	UserIDs []uuid.UUID
} {
	mock.lockGetByUserIDs.RLock()
	calls := mock.calls.GetByUserIDs
	mock.lockGetByUserIDs.RUnlock()
	return calls
}
