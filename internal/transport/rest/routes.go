package rest

import "net/http"

// Handlers groups the handlers mounted by Register.
type Handlers struct {
	Health   *HealthHandler
	Assignee *AssigneeHandler
	Filters  *FilterHandler
}

// Register mounts the probes on mux unwrapped and every business route
// behind wrap (the authenticated middleware chain).
func Register(mux *http.ServeMux, h Handlers, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	handle("GET /activities/{id}/assignee-candidates", h.Assignee.Candidates)
	handle("GET /activities/{id}/assignee-candidates/stream", h.Assignee.StreamCandidates)
	handle("PUT /activities/{id}/assignee", h.Assignee.Assign)

	handle("POST /views/{viewId}/filter-dropdowns/{instanceId}", h.Filters.Open)
	handle("GET /filter-dropdowns/{instanceId}", h.Filters.Get)
	handle("PATCH /filter-dropdowns/{instanceId}", h.Filters.Patch)
	handle("POST /filter-dropdowns/{instanceId}/select", h.Filters.Select)
	handle("POST /filter-dropdowns/{instanceId}/empty", h.Filters.Empty)
	handle("POST /filter-dropdowns/{instanceId}/reset", h.Filters.Reset)
	handle("DELETE /filter-dropdowns/{instanceId}", h.Filters.Dispose)

	handle("GET /views/{viewId}/filters", h.Filters.ViewFilters)
	handle("POST /views/{viewId}/filters/save", h.Filters.SaveViewFilters)
	handle("DELETE /views/{viewId}/filters", h.Filters.DiscardViewFilters)
	handle("DELETE /views/{viewId}/filters/{fieldMetadataId}", h.Filters.RemoveViewFilter)
}
