package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/internal/service/assignee"
	"github.com/heartmarshall/crm-activity-backend/internal/service/filterdropdown"
	"github.com/heartmarshall/crm-activity-backend/internal/service/viewfilter"
	"github.com/heartmarshall/crm-activity-backend/internal/transport/dataloader"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type assigneeStub struct {
	mu         sync.Mutex
	activity   *domain.Activity
	getErr     error
	result     *assignee.SearchResult
	searchErr  error
	candidates []domain.EntityForSelect
	streamErr  error
	assignErr  error
	searched   []assignee.SearchInput
	assigned   []assignee.AssignInput
}

func (s *assigneeStub) GetActivity(_ context.Context, id uuid.UUID) (*domain.Activity, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	a := *s.activity
	a.ID = id
	return &a, nil
}

func (s *assigneeStub) Search(_ context.Context, in assignee.SearchInput) (*assignee.SearchResult, error) {
	s.mu.Lock()
	s.searched = append(s.searched, in)
	s.mu.Unlock()
	return s.result, s.searchErr
}

func (s *assigneeStub) Candidates(_ context.Context, _ assignee.SearchInput) iter.Seq2[domain.EntityForSelect, error] {
	return func(yield func(domain.EntityForSelect, error) bool) {
		for _, e := range s.candidates {
			if !yield(e, nil) {
				return
			}
		}
		if s.streamErr != nil {
			yield(domain.EntityForSelect{}, s.streamErr)
		}
	}
}

func (s *assigneeStub) Assign(_ context.Context, in assignee.AssignInput) error {
	s.mu.Lock()
	s.assigned = append(s.assigned, in)
	s.mu.Unlock()
	return s.assignErr
}

// countingMemberRepo records every batch of user ids it is asked for.
type countingMemberRepo struct {
	mu      sync.Mutex
	members []domain.WorkspaceMember
	calls   [][]uuid.UUID
}

func (r *countingMemberRepo) GetByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userIDs)

	var out []domain.WorkspaceMember
	for _, m := range r.members {
		for _, id := range userIDs {
			if m.UserID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (r *countingMemberRepo) requested() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, c := range r.calls {
		ids = append(ids, c...)
	}
	return ids
}

type memoryFilterRepo struct {
	mu    sync.Mutex
	saved map[uuid.UUID][]domain.Filter
}

func (r *memoryFilterRepo) ListByView(_ context.Context, viewID uuid.UUID) ([]domain.Filter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[viewID], nil
}

func (r *memoryFilterRepo) ReplaceForView(_ context.Context, viewID uuid.UUID, filters []domain.Filter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[viewID] = filters
	return nil
}

type directTx struct{}

func (directTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type testServer struct {
	mux       *http.ServeMux
	assignee  *assigneeStub
	members   *countingMemberRepo
	dropdowns *filterdropdown.Registry
	repo      *memoryFilterRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := newTestLogger()
	ts := &testServer{
		mux:       http.NewServeMux(),
		assignee:  &assigneeStub{activity: &domain.Activity{Title: "Call", Type: domain.ActivityTypeTask}},
		members:   &countingMemberRepo{},
		dropdowns: filterdropdown.NewRegistry(log, nil),
		repo:      &memoryFilterRepo{saved: make(map[uuid.UUID][]domain.Filter)},
	}
	views := viewfilter.NewService(log, ts.repo, directTx{})

	Register(ts.mux, Handlers{
		Health:   NewHealthHandler(nil, "test"),
		Assignee: NewAssigneeHandler(ts.assignee, dataloader.NewMembers(ts.members), log),
		Filters:  NewFilterHandler(ts.dropdowns, views, log),
	}, dataloader.Middleware(&dataloader.Repos{Member: ts.members}))
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func TestHandleError_Statuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("x", "bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("activity: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrAlreadyExists, http.StatusConflict},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			handleError(newTestLogger(), rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleError_ValidationFields(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handleError(newTestLogger(), rec, httptest.NewRequest(http.MethodGet, "/", nil), domain.NewValidationError("limit", "max 200"))

	resp := decodeBody[errorResponse](t, rec)
	assert.Equal(t, []domain.FieldError{{Field: "limit", Message: "max 200"}}, resp.Fields)
}

// ---------------------------------------------------------------------------
// Assignee
// ---------------------------------------------------------------------------

func TestAssignee_Candidates(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	sel := domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: "Ada", FirstName: "Ada"})
	other := domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: "Bob", FirstName: "Bob"})
	ts.assignee.result = &assignee.SearchResult{
		SelectedEntities:         []domain.EntityForSelect{sel},
		FilteredSelectedEntities: nil,
		EntitiesToSelect:         []domain.EntityForSelect{other},
	}

	id := uuid.New()
	rec := ts.do(t, http.MethodGet, "/activities/"+id.String()+"/assignee-candidates?search=bo&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[candidatesResponse](t, rec)
	require.Len(t, resp.Selected, 1)
	assert.Equal(t, sel.ID.String(), resp.Selected[0].ID)
	assert.Equal(t, "User", resp.Selected[0].EntityType)
	assert.NotNil(t, resp.FilteredSelected)
	assert.Empty(t, resp.FilteredSelected)
	require.Len(t, resp.ToSelect, 1)
	assert.Equal(t, "Bob", resp.ToSelect[0].Name)

	require.Len(t, ts.assignee.searched, 1)
	in := ts.assignee.searched[0]
	assert.Equal(t, id, in.Activity.ID)
	assert.Equal(t, "bo", in.SearchText)
	assert.Equal(t, 5, in.Limit)
}

func TestAssignee_Candidates_AttachesWorkspaceMembersInOneRead(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ada := domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: "Ada"})
	bob := domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: "Bob"})
	cy := domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: "Cy"})
	adaMember := domain.WorkspaceMember{ID: uuid.New(), UserID: ada.ID}
	bobMember := domain.WorkspaceMember{ID: uuid.New(), UserID: bob.ID}
	ts.members.members = []domain.WorkspaceMember{adaMember, bobMember}
	ts.assignee.result = &assignee.SearchResult{
		SelectedEntities:         []domain.EntityForSelect{ada},
		FilteredSelectedEntities: []domain.EntityForSelect{ada},
		EntitiesToSelect:         []domain.EntityForSelect{bob, cy},
	}

	rec := ts.do(t, http.MethodGet, "/activities/"+uuid.NewString()+"/assignee-candidates", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[candidatesResponse](t, rec)
	require.Len(t, resp.Selected, 1)
	require.Len(t, resp.FilteredSelected, 1)
	require.Len(t, resp.ToSelect, 2)

	require.NotNil(t, resp.Selected[0].WorkspaceMemberID)
	assert.Equal(t, adaMember.ID.String(), *resp.Selected[0].WorkspaceMemberID)
	require.NotNil(t, resp.FilteredSelected[0].WorkspaceMemberID)
	assert.Equal(t, adaMember.ID.String(), *resp.FilteredSelected[0].WorkspaceMemberID)
	require.NotNil(t, resp.ToSelect[0].WorkspaceMemberID)
	assert.Equal(t, bobMember.ID.String(), *resp.ToSelect[0].WorkspaceMemberID)
	assert.Nil(t, resp.ToSelect[1].WorkspaceMemberID)

	// Ada is listed twice but read once.
	assert.ElementsMatch(t, []uuid.UUID{ada.ID, bob.ID, cy.ID}, ts.members.requested())
}

func TestAssignee_Candidates_BadInput(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/activities/not-a-uuid/assignee-candidates", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/activities/"+uuid.NewString()+"/assignee-candidates?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.assignee.searched)
}

func TestAssignee_Candidates_ActivityNotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.assignee.getErr = fmt.Errorf("get activity: %w", domain.ErrNotFound)

	rec := ts.do(t, http.MethodGet, "/activities/"+uuid.NewString()+"/assignee-candidates", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignee_StreamCandidates(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	for _, name := range []string{"Ada", "Bob", "Cy"} {
		ts.assignee.candidates = append(ts.assignee.candidates,
			domain.UserForSelect(domain.User{ID: uuid.New(), DisplayName: name}))
	}

	rec := ts.do(t, http.MethodGet, "/activities/"+uuid.NewString()+"/assignee-candidates/stream", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	var names []string
	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		var e entityResponse
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Ada", "Bob", "Cy"}, names)
}

func TestAssignee_StreamCandidates_ErrorBeforeOutput(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.assignee.streamErr = domain.ErrUnauthorized

	rec := ts.do(t, http.MethodGet, "/activities/"+uuid.NewString()+"/assignee-candidates/stream", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignee_Assign(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id, userID := uuid.New(), uuid.New()

	rec := ts.do(t, http.MethodPut, "/activities/"+id.String()+"/assignee", `{"userId":"`+userID.String()+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[activityResponse](t, rec)
	assert.Equal(t, id.String(), resp.ID)

	require.Len(t, ts.assignee.assigned, 1)
	in := ts.assignee.assigned[0]
	assert.Equal(t, id, in.Activity.ID)
	require.NotNil(t, in.Selected)
	assert.Equal(t, userID, in.Selected.ID)
	assert.Equal(t, domain.EntityTypeUser, in.Selected.EntityType)
}

func TestAssignee_Assign_NullSelection(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/activities/"+uuid.NewString()+"/assignee", `{"userId":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.assignee.assigned, 1)
	assert.Nil(t, ts.assignee.assigned[0].Selected)
}

func TestAssignee_Assign_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{"userId":`, nil, http.StatusBadRequest},
		{"bad uuid", `{"userId":"nope"}`, nil, http.StatusBadRequest},
		{"update failed", `{"userId":"` + uuid.NewString() + `"}`, errors.New("db down"), http.StatusInternalServerError},
		{"crm unavailable", `{"userId":"` + uuid.NewString() + `"}`, domain.ErrUnavailable, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t)
			ts.assignee.assignErr = tt.err

			rec := ts.do(t, http.MethodPut, "/activities/"+uuid.NewString()+"/assignee", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// ---------------------------------------------------------------------------
// Filter dropdowns
// ---------------------------------------------------------------------------

func TestFilters_DropdownLifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	viewID, field := uuid.New(), uuid.New()
	dropdown := "/filter-dropdowns/people-filter"

	rec := ts.do(t, http.MethodPost, "/views/"+viewID.String()+"/filter-dropdowns/people-filter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	opened := decodeBody[dropdownResponse](t, rec)
	assert.Equal(t, "people-filter", opened.InstanceID)
	assert.Equal(t, viewID.String(), opened.ViewID)
	assert.Empty(t, opened.SelectedRecordIDs)

	rec = ts.do(t, http.MethodPatch, dropdown, `{
		"searchInput": "ada",
		"filterDefinition": {"fieldMetadataId":"`+field.String()+`","label":"Owner","type":"RELATION"},
		"selectedOperand": "is"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody[dropdownResponse](t, rec)
	assert.Equal(t, "ada", patched.SearchInput)
	require.NotNil(t, patched.FilterDefinition)
	assert.Equal(t, "Owner", patched.FilterDefinition.Label)

	rec = ts.do(t, http.MethodPost, dropdown+"/select", `{"filter":{"fieldMetadataId":"`+field.String()+`","operand":"is","value":"x","displayValue":"X"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	selected := decodeBody[dropdownResponse](t, rec)
	require.NotNil(t, selected.SelectedFilter)
	assert.Equal(t, "x", selected.SelectedFilter.Value)

	rec = ts.do(t, http.MethodGet, "/views/"+viewID.String()+"/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	combined := decodeBody[viewFiltersResponse](t, rec)
	require.Len(t, combined.Filters, 1)
	assert.True(t, combined.HasUnsavedChanges)

	rec = ts.do(t, http.MethodPost, dropdown+"/empty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	emptied := decodeBody[dropdownResponse](t, rec)
	assert.Nil(t, emptied.SelectedFilter)
	assert.Empty(t, emptied.SearchInput)
	assert.NotNil(t, emptied.FilterDefinition)

	rec = ts.do(t, http.MethodPost, dropdown+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decodeBody[dropdownResponse](t, rec)
	assert.Nil(t, reset.FilterDefinition)
	assert.Nil(t, reset.SelectedOperand)

	rec = ts.do(t, http.MethodDelete, dropdown, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, dropdown, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilters_ReopenUnderOtherViewConflicts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	first := uuid.New()

	rec := ts.do(t, http.MethodPost, "/views/"+first.String()+"/filter-dropdowns/owners", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/views/"+first.String()+"/filter-dropdowns/owners", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/views/"+uuid.NewString()+"/filter-dropdowns/owners", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/filter-dropdowns/owners", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.String(), decodeBody[dropdownResponse](t, rec).ViewID)
}

func TestFilters_SelectReusingFilterIDConflicts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	viewID, id := uuid.New(), uuid.New()
	ts.do(t, http.MethodPost, "/views/"+viewID.String()+"/filter-dropdowns/d1", "")

	body := func(field uuid.UUID, value string) string {
		return `{"filter":{"id":"` + id.String() + `","fieldMetadataId":"` + field.String() + `","operand":"is","value":"` + value + `"}}`
	}
	rec := ts.do(t, http.MethodPost, "/filter-dropdowns/d1/select", body(uuid.New(), "first"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/filter-dropdowns/d1/select", body(uuid.New(), "second"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/filter-dropdowns/d1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[dropdownResponse](t, rec)
	require.NotNil(t, got.SelectedFilter)
	assert.Equal(t, "first", got.SelectedFilter.Value)
}

func TestFilters_PatchNullClears(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	group := uuid.New()
	ts.do(t, http.MethodPost, "/views/"+uuid.NewString()+"/filter-dropdowns/d1", "")

	rec := ts.do(t, http.MethodPatch, "/filter-dropdowns/d1", `{"advancedFilterViewFilterGroupId":"`+group.String()+`","filterIsSelected":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[dropdownResponse](t, rec)
	require.NotNil(t, got.AdvancedFilterViewFilterGroupID)
	assert.True(t, got.FilterIsSelected)

	rec = ts.do(t, http.MethodPatch, "/filter-dropdowns/d1", `{"advancedFilterViewFilterGroupId":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeBody[dropdownResponse](t, rec)
	assert.Nil(t, got.AdvancedFilterViewFilterGroupID)
	assert.True(t, got.FilterIsSelected, "absent fields are left alone")
}

func TestFilters_PatchRejectsWholeBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/views/"+uuid.NewString()+"/filter-dropdowns/d1", "")

	rec := ts.do(t, http.MethodPatch, "/filter-dropdowns/d1", `{"searchInput":"ada","selectedOperand":"roughly","colour":"red"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[errorResponse](t, rec)
	assert.Len(t, resp.Fields, 2)

	d, ok := ts.dropdowns.Get("d1")
	require.True(t, ok)
	assert.Empty(t, d.Snapshot().SearchInput)
}

func TestFilters_SelectNullClearsWithoutUpsert(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	viewID := uuid.New()
	ts.do(t, http.MethodPost, "/views/"+viewID.String()+"/filter-dropdowns/d1", "")

	rec := ts.do(t, http.MethodPost, "/filter-dropdowns/d1/select", `{"filter":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/views/"+viewID.String()+"/filters", "")
	combined := decodeBody[viewFiltersResponse](t, rec)
	assert.Empty(t, combined.Filters)
	assert.False(t, combined.HasUnsavedChanges)
}

func TestFilters_SelectValidatesFilter(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/views/"+uuid.NewString()+"/filter-dropdowns/d1", "")

	rec := ts.do(t, http.MethodPost, "/filter-dropdowns/d1/select", `{"filter":{"operand":"is"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilters_UnknownDropdown(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/filter-dropdowns/ghost"},
		{http.MethodPost, "/filter-dropdowns/ghost/reset"},
		{http.MethodDelete, "/filter-dropdowns/ghost"},
	} {
		rec := ts.do(t, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
	}
}

// ---------------------------------------------------------------------------
// View filters
// ---------------------------------------------------------------------------

func TestFilters_SaveAndRemove(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	viewID, field := uuid.New(), uuid.New()
	view := "/views/" + viewID.String()
	ts.do(t, http.MethodPost, view+"/filter-dropdowns/d1", "")
	ts.do(t, http.MethodPost, "/filter-dropdowns/d1/select", `{"filter":{"fieldMetadataId":"`+field.String()+`","operand":"contains","value":"acme"}}`)

	rec := ts.do(t, http.MethodPost, view+"/filters/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decodeBody[viewFiltersResponse](t, rec)
	require.Len(t, saved.Filters, 1)
	assert.Len(t, ts.repo.saved[viewID], 1)

	rec = ts.do(t, http.MethodDelete, view+"/filters/"+field.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, view+"/filters/"+field.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, view+"/filters", "")
	got := decodeBody[viewFiltersResponse](t, rec)
	assert.Empty(t, got.Filters)
	assert.True(t, got.HasUnsavedChanges)
}

func TestFilters_SaveUnopenedView(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/views/"+uuid.NewString()+"/filters/save", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilters_DiscardDisposesViewDropdowns(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	viewID, otherView := uuid.New(), uuid.New()
	ts.do(t, http.MethodPost, "/views/"+viewID.String()+"/filter-dropdowns/a", "")
	ts.do(t, http.MethodPost, "/views/"+viewID.String()+"/filter-dropdowns/b", "")
	ts.do(t, http.MethodPost, "/views/"+otherView.String()+"/filter-dropdowns/c", "")

	rec := ts.do(t, http.MethodDelete, "/views/"+viewID.String()+"/filters", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 1, ts.dropdowns.Len())
	_, ok := ts.dropdowns.Get("c")
	assert.True(t, ok)
}
