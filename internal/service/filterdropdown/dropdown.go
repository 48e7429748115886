package filterdropdown

import (
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// combinedFilters is the view-level aggregate a selected filter is
// propagated into.
type combinedFilters interface {
	UpsertCombinedViewFilter(filter domain.Filter) error
}

// OnFilterSelect is invoked after a filter selection is committed.
// filter is nil when the selection was cleared.
type OnFilterSelect func(filter *domain.Filter)

// Dropdown holds the state cells of one filter dropdown instance.
// All methods are safe for concurrent use. Selections are serialised so the
// selected cell and the combined filters always end on the same filter.
// The OnFilterSelect callback runs after both, outside every lock.
type Dropdown struct {
	instanceID string
	viewID     uuid.UUID
	combined   combinedFilters
	rec        recorder

	// selectMu orders SelectFilter calls; it is taken before mu.
	selectMu sync.Mutex

	mu             sync.Mutex
	state          State
	onFilterSelect OnFilterSelect
}

// InstanceID returns the component instance id this dropdown is keyed by.
func (d *Dropdown) InstanceID() string { return d.instanceID }

// ViewID returns the view whose combined filters receive selections.
func (d *Dropdown) ViewID() uuid.UUID { return d.viewID }

// Snapshot returns a consistent copy of every cell.
func (d *Dropdown) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// SelectFilter sets the selected filter. A non-nil filter is also upserted
// into the view's combined filters. The registered OnFilterSelect callback,
// if any, receives the same value. When the upsert is rejected the selected
// cell keeps its previous value and the callback does not run.
func (d *Dropdown) SelectFilter(filter *domain.Filter) error {
	d.selectMu.Lock()
	if filter != nil {
		if err := d.combined.UpsertCombinedViewFilter(*filter); err != nil {
			d.selectMu.Unlock()
			return err
		}
	}
	d.mu.Lock()
	d.state.SelectedFilter = cloneFilter(filter)
	onSelect := d.onFilterSelect
	d.mu.Unlock()
	d.selectMu.Unlock()

	d.rec.FilterSelected(filter == nil)

	if onSelect != nil {
		onSelect(cloneFilter(filter))
	}
	return nil
}

// EmptyFilterButKeepDefinition clears the picked value (search input,
// selected record ids, selected filter) and keeps the filter definition so
// a new value can be picked for the same field.
func (d *Dropdown) EmptyFilterButKeepDefinition() {
	d.mu.Lock()
	d.state.SearchInput = ""
	d.state.SelectedRecordIDs = nil
	d.state.SelectedFilter = nil
	d.mu.Unlock()

	d.rec.FilterReset(true)
}

// ResetFilter returns every filter cell to its initial value. Option
// values and the advanced filter location are left to their own setters.
func (d *Dropdown) ResetFilter() {
	d.mu.Lock()
	d.state.SearchInput = ""
	d.state.SelectedRecordIDs = nil
	d.state.SelectedFilter = nil
	d.state.FilterDefinition = nil
	d.state.SelectedOperand = nil
	d.state.FilterIsSelected = false
	d.state.IsSelectingCompositeField = false
	d.mu.Unlock()

	d.rec.FilterReset(false)
}

// SetSelectedFilter sets the selected filter without propagating it.
func (d *Dropdown) SetSelectedFilter(filter *domain.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SelectedFilter = cloneFilter(filter)
}

func (d *Dropdown) SetSelectedOperand(operand *domain.Operand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SelectedOperand = clonePtr(operand)
}

func (d *Dropdown) SetFilterDefinition(def *domain.FilterDefinition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.FilterDefinition = clonePtr(def)
}

func (d *Dropdown) SetSearchInput(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SearchInput = text
}

// SetSelectedRecordIDs replaces the selected record ids. Duplicates are
// dropped; order carries no meaning.
func (d *Dropdown) SetSelectedRecordIDs(ids []uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SelectedRecordIDs = uniqueIDs(ids)
}

func (d *Dropdown) SetSelectedOptionValues(values []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(values) == 0 {
		d.state.SelectedOptionValues = nil
		return
	}
	d.state.SelectedOptionValues = append([]string(nil), values...)
}

// SetOnFilterSelect registers (or with nil, removes) the selection callback.
func (d *Dropdown) SetOnFilterSelect(fn OnFilterSelect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onFilterSelect = fn
}

func (d *Dropdown) SetAdvancedFilterViewFilterGroupID(id *uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.AdvancedFilterViewFilterGroupID = clonePtr(id)
}

func (d *Dropdown) SetAdvancedFilterViewFilterID(id *uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.AdvancedFilterViewFilterID = clonePtr(id)
}

func (d *Dropdown) SetFilterIsSelected(selected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.FilterIsSelected = selected
}

func (d *Dropdown) SetIsSelectingCompositeField(selecting bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.IsSelectingCompositeField = selecting
}
