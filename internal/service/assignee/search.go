package assignee

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/pkg/ctxutil"
)

// GetActivity loads the activity the picker operates on.
func (s *Service) GetActivity(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("activity_id", "required")
	}

	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// Search runs the picker's user search for in.Activity. The three result
// sets are fetched concurrently; any failure fails the whole search.
func (s *Service) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.SearchText)
	limit := s.limit(in.Limit)

	var selectedIDs []uuid.UUID
	if id, ok := selectedUserID(in.Activity); ok {
		selectedIDs = []uuid.UUID{id}
	}

	var (
		selected         []domain.User
		filteredSelected []domain.User
		toSelect         []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)

	if len(selectedIDs) > 0 {
		g.Go(func() error {
			users, err := s.users.GetByIDs(gctx, selectedIDs)
			if err != nil {
				return fmt.Errorf("get selected users: %w", err)
			}
			selected = users
			return nil
		})
		g.Go(func() error {
			users, err := s.users.Search(gctx, domain.UserFilter{Search: text, IDs: selectedIDs, Limit: len(selectedIDs)})
			if err != nil {
				return fmt.Errorf("search filtered selected users: %w", err)
			}
			filteredSelected = users
			return nil
		})
	}

	g.Go(func() error {
		users, err := s.users.Search(gctx, domain.UserFilter{Search: text, ExcludeIDs: selectedIDs, Limit: limit})
		if err != nil {
			return fmt.Errorf("search users: %w", err)
		}
		toSelect = users
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SearchResult{
		SelectedEntities:         toEntities(selected),
		FilteredSelectedEntities: toEntities(filteredSelected),
		EntitiesToSelect:         toEntities(toSelect),
	}, nil
}

// Candidates returns every user matching in.SearchText as a lazy sequence,
// fetched in pages of in.Limit rows. Each range over the sequence starts
// from the first page; stopping the range stops paging. A failed page is
// yielded as the final element.
func (s *Service) Candidates(ctx context.Context, in SearchInput) iter.Seq2[domain.EntityForSelect, error] {
	return func(yield func(domain.EntityForSelect, error) bool) {
		if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
			yield(domain.EntityForSelect{}, domain.ErrUnauthorized)
			return
		}
		if err := in.Validate(); err != nil {
			yield(domain.EntityForSelect{}, err)
			return
		}

		filter := domain.UserFilter{
			Search: strings.TrimSpace(in.SearchText),
			Limit:  s.limit(in.Limit),
		}

		for {
			page, err := s.users.Search(ctx, filter)
			if err != nil {
				yield(domain.EntityForSelect{}, fmt.Errorf("search users page: %w", err))
				return
			}
			for _, u := range page {
				if !yield(domain.UserForSelect(u), nil) {
					return
				}
			}
			if len(page) < filter.Limit {
				return
			}
			filter.After = domain.CursorOf(page[len(page)-1])
		}
	}
}

func (s *Service) limit(requested int) int {
	if requested <= 0 {
		return s.searchLimit
	}
	return requested
}
