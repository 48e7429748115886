package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/internal/service/filterdropdown"
	"github.com/heartmarshall/crm-activity-backend/internal/service/viewfilter"
)

type dropdownRegistry interface {
	Open(instanceID string, opts filterdropdown.Options) (*filterdropdown.Dropdown, error)
	Lookup(ctx context.Context, explicitID string) (*filterdropdown.Dropdown, error)
	Dispose(instanceID string) bool
	DisposeView(viewID uuid.UUID) int
}

type viewFilterService interface {
	Open(ctx context.Context, viewID uuid.UUID) (*viewfilter.Combined, error)
	Save(ctx context.Context, viewID uuid.UUID) ([]domain.Filter, error)
	Discard(viewID uuid.UUID) bool
}

// FilterHandler serves filter dropdown instances and the combined filters
// of views.
type FilterHandler struct {
	dropdowns dropdownRegistry
	views     viewFilterService
	log       *slog.Logger
}

// NewFilterHandler creates a FilterHandler.
func NewFilterHandler(dropdowns dropdownRegistry, views viewFilterService, logger *slog.Logger) *FilterHandler {
	return &FilterHandler{dropdowns: dropdowns, views: views, log: logger.With("handler", "filters")}
}

type dropdownResponse struct {
	InstanceID                      string                   `json:"instanceId"`
	ViewID                          string                   `json:"viewId"`
	SearchInput                     string                   `json:"searchInput"`
	SelectedRecordIDs               []uuid.UUID              `json:"selectedRecordIds"`
	SelectedOptionValues            []string                 `json:"selectedOptionValues"`
	SelectedOperand                 *domain.Operand          `json:"selectedOperand"`
	SelectedFilter                  *domain.Filter           `json:"selectedFilter"`
	FilterDefinition                *domain.FilterDefinition `json:"filterDefinition"`
	FilterIsSelected                bool                     `json:"filterIsSelected"`
	IsSelectingCompositeField       bool                     `json:"isSelectingCompositeField"`
	AdvancedFilterViewFilterGroupID *uuid.UUID               `json:"advancedFilterViewFilterGroupId"`
	AdvancedFilterViewFilterID      *uuid.UUID               `json:"advancedFilterViewFilterId"`
}

type viewFiltersResponse struct {
	ViewID            string          `json:"viewId"`
	Filters           []domain.Filter `json:"filters"`
	HasUnsavedChanges bool            `json:"hasUnsavedChanges"`
}

type selectRequest struct {
	Filter *domain.Filter `json:"filter"`
}

// ---------------------------------------------------------------------------
// Dropdown instances
// ---------------------------------------------------------------------------

// Open handles POST /views/{viewId}/filter-dropdowns/{instanceId}.
func (h *FilterHandler) Open(w http.ResponseWriter, r *http.Request) {
	viewID, err := pathUUID(r, "viewId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	combined, err := h.views.Open(r.Context(), viewID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	instanceID := r.PathValue("instanceId")
	d, err := h.dropdowns.Open(instanceID, filterdropdown.Options{
		ViewID:          viewID,
		CombinedFilters: combined,
		OnFilterSelect: func(f *domain.Filter) {
			h.log.Debug("filter selected",
				slog.String("instance_id", instanceID),
				slog.Bool("cleared", f == nil),
			)
		},
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDropdownResponse(d))
}

// Get handles GET /filter-dropdowns/{instanceId}.
func (h *FilterHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withDropdown(w, r, func(*filterdropdown.Dropdown) error { return nil })
}

// Patch handles PATCH /filter-dropdowns/{instanceId}. Only fields present in
// the body are applied; null clears a nullable field.
func (h *FilterHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	setters, err := parsePatch(body)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.withDropdown(w, r, func(d *filterdropdown.Dropdown) error {
		for _, set := range setters {
			set(d)
		}
		return nil
	})
}

// Select handles POST /filter-dropdowns/{instanceId}/select.
func (h *FilterHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.Filter != nil {
		if err := validateFilter(*req.Filter); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	h.withDropdown(w, r, func(d *filterdropdown.Dropdown) error {
		return d.SelectFilter(req.Filter)
	})
}

// Empty handles POST /filter-dropdowns/{instanceId}/empty.
func (h *FilterHandler) Empty(w http.ResponseWriter, r *http.Request) {
	h.withDropdown(w, r, func(d *filterdropdown.Dropdown) error {
		d.EmptyFilterButKeepDefinition()
		return nil
	})
}

// Reset handles POST /filter-dropdowns/{instanceId}/reset.
func (h *FilterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.withDropdown(w, r, func(d *filterdropdown.Dropdown) error {
		d.ResetFilter()
		return nil
	})
}

// Dispose handles DELETE /filter-dropdowns/{instanceId}.
func (h *FilterHandler) Dispose(w http.ResponseWriter, r *http.Request) {
	if !h.dropdowns.Dispose(r.PathValue("instanceId")) {
		handleError(h.log, w, r, domain.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FilterHandler) withDropdown(w http.ResponseWriter, r *http.Request, fn func(*filterdropdown.Dropdown) error) {
	d, err := h.dropdowns.Lookup(r.Context(), r.PathValue("instanceId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := fn(d); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDropdownResponse(d))
}

// ---------------------------------------------------------------------------
// View filters
// ---------------------------------------------------------------------------

// ViewFilters handles GET /views/{viewId}/filters.
func (h *FilterHandler) ViewFilters(w http.ResponseWriter, r *http.Request) {
	viewID, err := pathUUID(r, "viewId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	combined, err := h.views.Open(r.Context(), viewID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewFiltersResponse{
		ViewID:            viewID.String(),
		Filters:           orEmpty(combined.Filters()),
		HasUnsavedChanges: combined.HasUnsavedChanges(),
	})
}

// RemoveViewFilter handles DELETE /views/{viewId}/filters/{fieldMetadataId}.
func (h *FilterHandler) RemoveViewFilter(w http.ResponseWriter, r *http.Request) {
	viewID, err := pathUUID(r, "viewId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	fieldID, err := pathUUID(r, "fieldMetadataId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	combined, err := h.views.Open(r.Context(), viewID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !combined.RemoveCombinedViewFilter(fieldID) {
		handleError(h.log, w, r, domain.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveViewFilters handles POST /views/{viewId}/filters/save.
func (h *FilterHandler) SaveViewFilters(w http.ResponseWriter, r *http.Request) {
	viewID, err := pathUUID(r, "viewId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	saved, err := h.views.Save(r.Context(), viewID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewFiltersResponse{ViewID: viewID.String(), Filters: orEmpty(saved)})
}

// DiscardViewFilters handles DELETE /views/{viewId}/filters. The working set
// and every dropdown attached to the view are dropped.
func (h *FilterHandler) DiscardViewFilters(w http.ResponseWriter, r *http.Request) {
	viewID, err := pathUUID(r, "viewId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	discarded := h.views.Discard(viewID)
	disposed := h.dropdowns.DisposeView(viewID)
	h.log.InfoContext(r.Context(), "view filters discarded",
		slog.String("view_id", viewID.String()),
		slog.Bool("had_working_set", discarded),
		slog.Int("dropdowns_disposed", disposed),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type setter func(*filterdropdown.Dropdown)

// parsePatch decodes every field of a PATCH body before anything is
// applied, so a bad field leaves the dropdown untouched.
func parsePatch(body map[string]json.RawMessage) ([]setter, error) {
	var (
		setters []setter
		errs    []domain.FieldError
	)
	bad := func(field, msg string) {
		errs = append(errs, domain.FieldError{Field: field, Message: msg})
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		raw := body[key]
		switch key {
		case "searchInput":
			var v string
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a string")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetSearchInput(v) })
		case "selectedRecordIds":
			var v []uuid.UUID
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a list of UUIDs")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetSelectedRecordIDs(v) })
		case "selectedOptionValues":
			var v []string
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a list of strings")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetSelectedOptionValues(v) })
		case "selectedOperand":
			var v *domain.Operand
			if json.Unmarshal(raw, &v) != nil || (v != nil && !v.IsValid()) {
				bad(key, "unknown operand")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetSelectedOperand(v) })
		case "selectedFilter":
			var v *domain.Filter
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a filter object or null")
				continue
			}
			if v != nil {
				if err := validateFilter(*v); err != nil {
					bad(key, err.Error())
					continue
				}
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetSelectedFilter(v) })
		case "filterDefinition":
			var v *domain.FilterDefinition
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a definition object or null")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetFilterDefinition(v) })
		case "filterIsSelected":
			var v bool
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a boolean")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetFilterIsSelected(v) })
		case "isSelectingCompositeField":
			var v bool
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a boolean")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetIsSelectingCompositeField(v) })
		case "advancedFilterViewFilterGroupId":
			var v *uuid.UUID
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a UUID or null")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetAdvancedFilterViewFilterGroupID(v) })
		case "advancedFilterViewFilterId":
			var v *uuid.UUID
			if json.Unmarshal(raw, &v) != nil {
				bad(key, "must be a UUID or null")
				continue
			}
			setters = append(setters, func(d *filterdropdown.Dropdown) { d.SetAdvancedFilterViewFilterID(v) })
		default:
			bad(key, "unknown field")
		}
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return setters, nil
}

func validateFilter(f domain.Filter) error {
	var errs []domain.FieldError
	if f.FieldMetadataID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "filter.fieldMetadataId", Message: "required"})
	}
	if !f.Operand.IsValid() {
		errs = append(errs, domain.FieldError{Field: "filter.operand", Message: "unknown operand"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func toDropdownResponse(d *filterdropdown.Dropdown) dropdownResponse {
	s := d.Snapshot()
	resp := dropdownResponse{
		InstanceID:                      d.InstanceID(),
		ViewID:                          d.ViewID().String(),
		SearchInput:                     s.SearchInput,
		SelectedRecordIDs:               s.SelectedRecordIDs,
		SelectedOptionValues:            s.SelectedOptionValues,
		SelectedOperand:                 s.SelectedOperand,
		SelectedFilter:                  s.SelectedFilter,
		FilterDefinition:                s.FilterDefinition,
		FilterIsSelected:                s.FilterIsSelected,
		IsSelectingCompositeField:       s.IsSelectingCompositeField,
		AdvancedFilterViewFilterGroupID: s.AdvancedFilterViewFilterGroupID,
		AdvancedFilterViewFilterID:      s.AdvancedFilterViewFilterID,
	}
	resp.SelectedRecordIDs = orEmpty(resp.SelectedRecordIDs)
	resp.SelectedOptionValues = orEmpty(resp.SelectedOptionValues)
	return resp
}

// orEmpty keeps JSON arrays from encoding as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
