package assignee

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

const maxSearchText = 200

// SearchInput holds the parameters of a picker search.
type SearchInput struct {
	Activity   domain.Activity
	SearchText string
	// Limit caps EntitiesToSelect. Zero means the service default.
	Limit int
}

// Validate checks all fields and collects all errors.
func (i SearchInput) Validate() error {
	var errs []domain.FieldError

	if i.Activity.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "activity.id", Message: "required"})
	}
	if len(strings.TrimSpace(i.SearchText)) > maxSearchText {
		errs = append(errs, domain.FieldError{Field: "search_text", Message: "max 200 characters"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// AssignInput holds the parameters of an assignment.
type AssignInput struct {
	Activity domain.Activity
	// Selected is the picked user row. nil submits without assigning.
	Selected *domain.EntityForSelect
	// OnSubmit, if set, is called once the submission has been handled.
	OnSubmit func()
}

// Validate checks all fields and collects all errors.
func (i AssignInput) Validate() error {
	var errs []domain.FieldError

	if i.Activity.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "activity.id", Message: "required"})
	}
	if i.Selected != nil {
		if i.Selected.ID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "selected.id", Message: "required"})
		}
		if i.Selected.EntityType != domain.EntityTypeUser {
			errs = append(errs, domain.FieldError{Field: "selected.entity_type", Message: "must be User"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// selectedUserID returns the user the picker starts with: the user behind
// the current account owner, else the stored assignee.
func selectedUserID(a domain.Activity) (uuid.UUID, bool) {
	if a.AccountOwner != nil && a.AccountOwner.UserID != uuid.Nil {
		return a.AccountOwner.UserID, true
	}
	if a.AssigneeID != nil && *a.AssigneeID != uuid.Nil {
		return *a.AssigneeID, true
	}
	return uuid.Nil, false
}
