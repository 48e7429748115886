package rest

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/internal/service/assignee"
)

type assigneeService interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	Search(ctx context.Context, in assignee.SearchInput) (*assignee.SearchResult, error)
	Candidates(ctx context.Context, in assignee.SearchInput) iter.Seq2[domain.EntityForSelect, error]
	Assign(ctx context.Context, in assignee.AssignInput) error
}

type memberLookup interface {
	FirstByUserID(ctx context.Context, userID uuid.UUID) (*domain.WorkspaceMember, error)
}

// AssigneeHandler serves the activity assignee picker.
type AssigneeHandler struct {
	svc     assigneeService
	members memberLookup
	log     *slog.Logger
}

// NewAssigneeHandler creates an AssigneeHandler. members may be nil, in which
// case candidates are returned without their workspace member.
func NewAssigneeHandler(svc assigneeService, members memberLookup, logger *slog.Logger) *AssigneeHandler {
	return &AssigneeHandler{svc: svc, members: members, log: logger.With("handler", "assignee")}
}

type entityResponse struct {
	EntityType        string  `json:"entityType"`
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	AvatarType        string  `json:"avatarType"`
	AvatarURL         string  `json:"avatarUrl,omitempty"`
	WorkspaceMemberID *string `json:"workspaceMemberId,omitempty"`
}

type candidatesResponse struct {
	Selected         []entityResponse `json:"selected"`
	FilteredSelected []entityResponse `json:"filteredSelected"`
	ToSelect         []entityResponse `json:"toSelect"`
}

type memberResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
}

type activityResponse struct {
	ID                        string          `json:"id"`
	Title                     string          `json:"title"`
	Type                      string          `json:"type"`
	AssigneeID                *string         `json:"assigneeId"`
	WorkspaceMemberAssigneeID *string         `json:"workspaceMemberAssigneeId"`
	AccountOwner              *memberResponse `json:"accountOwner"`
}

type assignRequest struct {
	UserID *uuid.UUID `json:"userId"`
}

// Candidates handles GET /activities/{id}/assignee-candidates?search=&limit=.
func (h *AssigneeHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	in, ok := h.searchInput(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Search(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := candidatesResponse{
		Selected:         toEntityResponses(result.SelectedEntities),
		FilteredSelected: toEntityResponses(result.FilteredSelectedEntities),
		ToSelect:         toEntityResponses(result.EntitiesToSelect),
	}
	if err := h.attachMembers(r.Context(), resp.Selected, resp.FilteredSelected, resp.ToSelect); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// attachMembers resolves the workspace member of every user entity. Each
// entity loads on its own goroutine; the request's member loader coalesces
// them into one repository read and serves repeated users from its cache.
func (h *AssigneeHandler) attachMembers(ctx context.Context, lists ...[]entityResponse) error {
	if h.members == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, list := range lists {
		for i := range list {
			e := &list[i]
			if e.EntityType != string(domain.EntityTypeUser) {
				continue
			}
			userID, err := uuid.Parse(e.ID)
			if err != nil {
				continue
			}
			g.Go(func() error {
				m, err := h.members.FirstByUserID(gctx, userID)
				if err != nil || m == nil {
					return err
				}
				e.WorkspaceMemberID = uuidString(&m.ID)
				return nil
			})
		}
	}
	return g.Wait()
}

// StreamCandidates handles GET /activities/{id}/assignee-candidates/stream.
// Every matching user is written as one NDJSON line, page by page.
func (h *AssigneeHandler) StreamCandidates(w http.ResponseWriter, r *http.Request) {
	in, ok := h.searchInput(w, r)
	if !ok {
		return
	}

	next, stop := iter.Pull2(h.svc.Candidates(r.Context(), in))
	defer stop()

	// The first pull surfaces validation and auth errors before any output.
	first, err, more := next()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for e := first; more; e, err, more = next() {
		if err != nil {
			h.log.WarnContext(r.Context(), "candidate stream aborted", slog.String("error", err.Error()))
			return
		}
		if err := enc.Encode(toEntityResponse(e)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Assign handles PUT /activities/{id}/assignee with {"userId": uuid|null}.
func (h *AssigneeHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	activity, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	in := assignee.AssignInput{Activity: *activity}
	if req.UserID != nil {
		in.Selected = &domain.EntityForSelect{EntityType: domain.EntityTypeUser, ID: *req.UserID}
	}
	if err := h.svc.Assign(r.Context(), in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	updated, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(updated))
}

func (h *AssigneeHandler) searchInput(w http.ResponseWriter, r *http.Request) (assignee.SearchInput, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return assignee.SearchInput{}, false
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return assignee.SearchInput{}, false
		}
	}

	activity, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return assignee.SearchInput{}, false
	}

	return assignee.SearchInput{
		Activity:   *activity,
		SearchText: r.URL.Query().Get("search"),
		Limit:      limit,
	}, true
}

func toEntityResponse(e domain.EntityForSelect) entityResponse {
	return entityResponse{
		EntityType: string(e.EntityType),
		ID:         e.ID.String(),
		Name:       e.Name,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		AvatarType: string(e.AvatarType),
		AvatarURL:  e.AvatarURL,
	}
}

func toEntityResponses(es []domain.EntityForSelect) []entityResponse {
	out := make([]entityResponse, len(es))
	for i, e := range es {
		out[i] = toEntityResponse(e)
	}
	return out
}

func toActivityResponse(a *domain.Activity) activityResponse {
	resp := activityResponse{
		ID:                        a.ID.String(),
		Title:                     a.Title,
		Type:                      a.Type.String(),
		AssigneeID:                uuidString(a.AssigneeID),
		WorkspaceMemberAssigneeID: uuidString(a.WorkspaceMemberAssigneeID),
	}
	if m := a.AccountOwner; m != nil {
		resp.AccountOwner = &memberResponse{ID: m.ID.String(), UserID: m.UserID.String(), FullName: m.FullName()}
	}
	return resp
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
