// Package viewfilter manages the combined filters of views: loading the
// saved set, tracking unsaved edits in process, and saving them back.
package viewfilter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

type filterRepo interface {
	ListByView(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error)
	ReplaceForView(ctx context.Context, viewID uuid.UUID, filters []domain.Filter) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service owns the in-process working sets, one per opened view.
type Service struct {
	filters filterRepo
	tx      txManager
	log     *slog.Logger

	mu    sync.Mutex
	views map[uuid.UUID]*Combined
}

func NewService(log *slog.Logger, filters filterRepo, tx txManager) *Service {
	return &Service{
		filters: filters,
		tx:      tx,
		log:     log.With("service", "viewfilter"),
		views:   make(map[uuid.UUID]*Combined),
	}
}

// Open returns the working set of viewID, loading the saved filters on
// first use.
func (s *Service) Open(ctx context.Context, viewID uuid.UUID) (*Combined, error) {
	if viewID == uuid.Nil {
		return nil, domain.NewValidationError("view_id", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.views[viewID]; ok {
		return c, nil
	}

	saved, err := s.filters.ListByView(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("load view filters: %w", err)
	}

	c := newCombined(viewID, saved)
	s.views[viewID] = c
	return c, nil
}

// Get returns the working set of viewID if it was opened.
func (s *Service) Get(viewID uuid.UUID) (*Combined, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.views[viewID]
	return c, ok
}

// Save replaces the stored filters of viewID with its working set in one
// transaction and returns what was saved.
func (s *Service) Save(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error) {
	c, ok := s.Get(viewID)
	if !ok {
		return nil, fmt.Errorf("view %s: %w", viewID, domain.ErrNotFound)
	}

	filters, markSaved := c.snapshot()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.filters.ReplaceForView(ctx, viewID, filters)
	})
	if err != nil {
		return nil, fmt.Errorf("save view filters: %w", err)
	}
	markSaved()

	s.log.InfoContext(ctx, "view filters saved",
		slog.String("view_id", viewID.String()),
		slog.Int("count", len(filters)),
	)

	return filters, nil
}

// Discard drops the working set of viewID; the next Open reloads it.
func (s *Service) Discard(viewID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.views[viewID]; !ok {
		return false
	}
	delete(s.views, viewID)
	return true
}
