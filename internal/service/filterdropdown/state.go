package filterdropdown

import (
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// State is a copy of every cell of one filter dropdown instance.
// Zero value is the initial (empty) state.
type State struct {
	SearchInput          string
	SelectedRecordIDs    []uuid.UUID
	SelectedOptionValues []string
	SelectedOperand      *domain.Operand
	SelectedFilter       *domain.Filter
	FilterDefinition     *domain.FilterDefinition

	FilterIsSelected          bool
	IsSelectingCompositeField bool

	// Location of the edited filter inside the advanced filter editor.
	AdvancedFilterViewFilterGroupID *uuid.UUID
	AdvancedFilterViewFilterID      *uuid.UUID
}

// clone returns a deep copy so callers never share pointers with the
// dropdown's live cells.
func (s State) clone() State {
	out := s
	out.SelectedRecordIDs = slices.Clone(s.SelectedRecordIDs)
	out.SelectedOptionValues = slices.Clone(s.SelectedOptionValues)
	out.SelectedOperand = clonePtr(s.SelectedOperand)
	out.SelectedFilter = cloneFilter(s.SelectedFilter)
	out.FilterDefinition = clonePtr(s.FilterDefinition)
	out.AdvancedFilterViewFilterGroupID = clonePtr(s.AdvancedFilterViewFilterGroupID)
	out.AdvancedFilterViewFilterID = clonePtr(s.AdvancedFilterViewFilterID)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFilter(f *domain.Filter) *domain.Filter {
	if f == nil {
		return nil
	}
	out := *f
	out.ViewFilterGroupID = clonePtr(f.ViewFilterGroupID)
	return &out
}

// uniqueIDs drops duplicates, keeping the first occurrence of each id.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
