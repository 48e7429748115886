package viewfilter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// Combined is the working set of filters of one view: the saved filters
// plus changes not yet saved. Safe for concurrent use.
type Combined struct {
	viewID uuid.UUID

	mu      sync.Mutex
	filters []domain.Filter
	dirty   bool
}

func newCombined(viewID uuid.UUID, saved []domain.Filter) *Combined {
	return &Combined{viewID: viewID, filters: slices.Clone(saved)}
}

// ViewID returns the view this working set belongs to.
func (c *Combined) ViewID() uuid.UUID { return c.viewID }

// UpsertCombinedViewFilter adds filter, or replaces the filter describing
// the same condition in place. A replaced filter keeps its id; a new
// filter without an id gets one. A new filter whose id already belongs to
// another condition is rejected with domain.ErrConflict and the set is left
// unchanged.
func (c *Combined) UpsertCombinedViewFilter(filter domain.Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.filters {
		if existing.SameCondition(filter) {
			filter.ID = existing.ID
			c.filters[i] = filter
			c.dirty = true
			return nil
		}
	}
	if filter.ID == uuid.Nil {
		filter.ID = uuid.New()
	} else if slices.ContainsFunc(c.filters, func(f domain.Filter) bool { return f.ID == filter.ID }) {
		return fmt.Errorf("filter id %s already used in view %s: %w", filter.ID, c.viewID, domain.ErrConflict)
	}
	c.filters = append(c.filters, filter)
	c.dirty = true
	return nil
}

// RemoveCombinedViewFilter drops every filter on fieldMetadataID and
// reports whether any was removed.
func (c *Combined) RemoveCombinedViewFilter(fieldMetadataID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.filters)
	c.filters = slices.DeleteFunc(c.filters, func(f domain.Filter) bool {
		return f.FieldMetadataID == fieldMetadataID
	})
	removed := len(c.filters) != before
	if removed {
		c.dirty = true
	}
	return removed
}

// Filters returns a copy of the current working set.
func (c *Combined) Filters() []domain.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.filters)
}

// HasUnsavedChanges reports whether the working set differs from what was
// last loaded or saved.
func (c *Combined) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// snapshot returns the filters to persist together with a function that
// marks them saved, unless the set changed again in between.
func (c *Combined) snapshot() ([]domain.Filter, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters := slices.Clone(c.filters)
	return filters, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if slices.EqualFunc(filters, c.filters, filterEqual) {
			c.dirty = false
		}
	}
}

func filterEqual(a, b domain.Filter) bool {
	if a.ID != b.ID || a.FieldMetadataID != b.FieldMetadataID || a.Operand != b.Operand ||
		a.Value != b.Value || a.DisplayValue != b.DisplayValue || a.DefinitionLabel != b.DefinitionLabel {
		return false
	}
	return a.SameCondition(b)
}
