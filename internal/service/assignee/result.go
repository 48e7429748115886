package assignee

import "github.com/heartmarshall/crm-activity-backend/internal/domain"

// SearchResult splits a picker search into the current selection and the
// remaining candidates.
type SearchResult struct {
	// SelectedEntities are the selected users regardless of search text.
	SelectedEntities []domain.EntityForSelect
	// FilteredSelectedEntities are the selected users matching the text.
	FilteredSelectedEntities []domain.EntityForSelect
	// EntitiesToSelect are matching users that are not selected.
	EntitiesToSelect []domain.EntityForSelect
}

// SelectedEntity returns the single selected row, if any.
func (r *SearchResult) SelectedEntity() *domain.EntityForSelect {
	if r == nil || len(r.SelectedEntities) == 0 {
		return nil
	}
	e := r.SelectedEntities[0]
	return &e
}

func toEntities(users []domain.User) []domain.EntityForSelect {
	out := make([]domain.EntityForSelect, len(users))
	for i, u := range users {
		out[i] = domain.UserForSelect(u)
	}
	return out
}
