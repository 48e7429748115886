// Package filterdropdown keeps the state of filter dropdown instances.
// Each instance is created explicitly through a Registry, keyed by its
// component instance id, and lives until it is disposed.
package filterdropdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// ErrNoInstanceID is returned when neither an explicit nor an ambient
// component instance id is available.
var ErrNoInstanceID = domain.NewValidationError("instance_id", "no component instance id available")

type recorder interface {
	FilterSelected(cleared bool)
	FilterReset(keepDefinition bool)
	DropdownsOpen(n int)
}

type noopRecorder struct{}

func (noopRecorder) FilterSelected(bool) {}
func (noopRecorder) FilterReset(bool)    {}
func (noopRecorder) DropdownsOpen(int)   {}

// Options configures a dropdown on creation.
type Options struct {
	// ViewID identifies the view the dropdown filters. Informational.
	ViewID uuid.UUID
	// CombinedFilters receives every non-nil selected filter. Required.
	CombinedFilters combinedFilters
	// OnFilterSelect is the initial selection callback. Optional.
	OnFilterSelect OnFilterSelect
}

// Registry is the factory and owner of dropdown instances.
type Registry struct {
	log *slog.Logger
	rec recorder

	mu        sync.Mutex
	instances map[string]*Dropdown
}

// NewRegistry creates an empty Registry. rec may be nil.
func NewRegistry(log *slog.Logger, rec recorder) *Registry {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Registry{
		log:       log.With("service", "filterdropdown"),
		rec:       rec,
		instances: make(map[string]*Dropdown),
	}
}

// Open returns the dropdown for instanceID, creating it with opts if it
// does not exist yet. Reopening an existing instance ignores opts except
// for the view: an instance bound to another view is domain.ErrConflict.
func (r *Registry) Open(instanceID string, opts Options) (*Dropdown, error) {
	instanceID = normalizeID(instanceID)
	if instanceID == "" {
		return nil, ErrNoInstanceID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.instances[instanceID]; ok {
		if d.viewID != opts.ViewID {
			return nil, fmt.Errorf("dropdown %q is bound to view %s: %w", instanceID, d.viewID, domain.ErrConflict)
		}
		return d, nil
	}

	if opts.CombinedFilters == nil {
		return nil, domain.NewValidationError("combined_filters", "required")
	}

	d := &Dropdown{
		instanceID:     instanceID,
		viewID:         opts.ViewID,
		combined:       opts.CombinedFilters,
		rec:            r.rec,
		onFilterSelect: opts.OnFilterSelect,
	}
	r.instances[instanceID] = d
	r.rec.DropdownsOpen(len(r.instances))

	r.log.Debug("filter dropdown opened",
		slog.String("instance_id", instanceID),
		slog.String("view_id", opts.ViewID.String()),
	)

	return d, nil
}

// Get returns the dropdown for instanceID if it exists.
func (r *Registry) Get(instanceID string) (*Dropdown, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.instances[normalizeID(instanceID)]
	return d, ok
}

// Lookup resolves the instance id (explicit, else ambient from ctx) and
// returns its dropdown. Returns domain.ErrNotFound if it was never opened.
func (r *Registry) Lookup(ctx context.Context, explicitID string) (*Dropdown, error) {
	id, err := InstanceIDFromContext(ctx, explicitID)
	if err != nil {
		return nil, err
	}
	d, ok := r.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// Dispose removes the dropdown for instanceID. Reports whether it existed.
func (r *Registry) Dispose(instanceID string) bool {
	instanceID = normalizeID(instanceID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[instanceID]; !ok {
		return false
	}
	delete(r.instances, instanceID)
	r.rec.DropdownsOpen(len(r.instances))
	return true
}

// DisposeView removes every dropdown attached to viewID and returns how
// many were removed.
func (r *Registry) DisposeView(viewID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, d := range r.instances {
		if d.viewID == viewID {
			delete(r.instances, id)
			n++
		}
	}
	if n > 0 {
		r.rec.DropdownsOpen(len(r.instances))
	}
	return n
}

// Len returns the number of open dropdowns.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

type instanceIDKey struct{}

// WithInstanceID stores the ambient component instance id in ctx.
func WithInstanceID(ctx context.Context, instanceID string) context.Context {
	return context.WithValue(ctx, instanceIDKey{}, instanceID)
}

// InstanceIDFromContext returns explicitID when set, otherwise the ambient
// id stored by WithInstanceID. Returns ErrNoInstanceID if neither exists.
func InstanceIDFromContext(ctx context.Context, explicitID string) (string, error) {
	if id := normalizeID(explicitID); id != "" {
		return id, nil
	}
	if id, ok := ctx.Value(instanceIDKey{}).(string); ok && normalizeID(id) != "" {
		return normalizeID(id), nil
	}
	return "", ErrNoInstanceID
}

// normalizeID is the canonical form instance ids are stored and looked up by.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
