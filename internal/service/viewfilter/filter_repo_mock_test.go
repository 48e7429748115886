package viewfilter

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

var _ filterRepo = &filterRepoMock{}

type filterRepoMock struct {
	ListByViewFunc     func(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error)
	ReplaceForViewFunc func(ctx context.Context, viewID uuid.UUID, filters []domain.Filter) error

	calls struct {
		ListByView []struct {
			Ctx    context.Context
			ViewID uuid.UUID
		}
		ReplaceForView []struct {
			Ctx     context.Context
			ViewID  uuid.UUID
			Filters []domain.Filter
		}
	}
	lockListByView     sync.RWMutex
	lockReplaceForView sync.RWMutex
}

func (mock *filterRepoMock) ListByView(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error) {
	if mock.ListByViewFunc == nil {
		panic("filterRepoMock.ListByViewFunc: method is nil but filterRepo.ListByView was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ViewID uuid.UUID
	}{Ctx: ctx, ViewID: viewID}
	mock.lockListByView.Lock()
	mock.calls.ListByView = append(mock.calls.ListByView, callInfo)
	mock.lockListByView.Unlock()
	return mock.ListByViewFunc(ctx, viewID)
}

func (mock *filterRepoMock) ListByViewCalls() []struct {
	Ctx    context.Context
	ViewID uuid.UUID
} {
	mock.lockListByView.RLock()
	calls := mock.calls.ListByView
	mock.lockListByView.RUnlock()
	return calls
}

func (mock *filterRepoMock) ReplaceForView(ctx context.Context, viewID uuid.UUID, filters []domain.Filter) error {
	if mock.ReplaceForViewFunc == nil {
		panic("filterRepoMock.ReplaceForViewFunc: method is nil but filterRepo.ReplaceForView was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ViewID  uuid.UUID
		Filters []domain.Filter
	}{Ctx: ctx, ViewID: viewID, Filters: filters}
	mock.lockReplaceForView.Lock()
	mock.calls.ReplaceForView = append(mock.calls.ReplaceForView, callInfo)
	mock.lockReplaceForView.Unlock()
	return mock.ReplaceForViewFunc(ctx, viewID, filters)
}

func (mock *filterRepoMock) ReplaceForViewCalls() []struct {
	Ctx     context.Context
	ViewID  uuid.UUID
	Filters []domain.Filter
} {
	mock.lockReplaceForView.RLock()
	calls := mock.calls.ReplaceForView
	mock.lockReplaceForView.RUnlock()
	return calls
}
