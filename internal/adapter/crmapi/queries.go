package crmapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type userDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d userDTO) toDomain() domain.User {
	return domain.User{
		ID:          d.ID,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		AvatarURL:   d.AvatarURL,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type memberDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d memberDTO) toDomain() domain.WorkspaceMember {
	return domain.WorkspaceMember{
		ID:        d.ID,
		UserID:    d.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		CreatedAt: d.CreatedAt,
	}
}

type activityDTO struct {
	ID                        uuid.UUID  `json:"id"`
	Title                     string     `json:"title"`
	Type                      string     `json:"type"`
	AssigneeID                *uuid.UUID `json:"assigneeId"`
	WorkspaceMemberAssigneeID *uuid.UUID `json:"workspaceMemberAssigneeId"`
	WorkspaceMemberAssignee   *memberDTO `json:"workspaceMemberAssignee"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// Search returns users matching filter, ordered by (first name, id).
func (c *Client) Search(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	input := map[string]any{}
	if filter.Search != "" {
		input["text"] = filter.Search
	}
	if len(filter.IDs) > 0 {
		input["ids"] = filter.IDs
	}
	if len(filter.ExcludeIDs) > 0 {
		input["excludeIds"] = filter.ExcludeIDs
	}
	if filter.After != nil {
		input["after"] = map[string]any{"firstName": filter.After.FirstName, "id": filter.After.ID}
	}
	if filter.Limit > 0 {
		input["limit"] = filter.Limit
	}

	var out struct {
		SearchUsers []userDTO `json:"searchUsers"`
	}
	if err := c.do(ctx, opSearchUsers, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}

	users := make([]domain.User, len(out.SearchUsers))
	for i, d := range out.SearchUsers {
		users[i] = d.toDomain()
	}
	return users, nil
}

// GetByIDs returns the users with the given ids. Unknown ids are skipped.
func (c *Client) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return c.Search(ctx, domain.UserFilter{IDs: ids})
}

// ---------------------------------------------------------------------------
// Workspace members
// ---------------------------------------------------------------------------

// GetByUserIDs returns members of the given users ordered by
// (user id, joined at).
func (c *Client) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error) {
	if len(userIDs) == 0 {
		return []domain.WorkspaceMember{}, nil
	}

	userFilter := map[string]any{"in": userIDs}
	if len(userIDs) == 1 {
		userFilter = map[string]any{"equals": userIDs[0]}
	}

	var out struct {
		WorkspaceMembers []memberDTO `json:"workspaceMembers"`
	}
	vars := map[string]any{"where": map[string]any{"userId": userFilter}}
	if err := c.do(ctx, opMembers, vars, &out); err != nil {
		return nil, err
	}

	members := make([]domain.WorkspaceMember, len(out.WorkspaceMembers))
	for i, d := range out.WorkspaceMembers {
		members[i] = d.toDomain()
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].UserID != members[j].UserID {
			return members[i].UserID.String() < members[j].UserID.String()
		}
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// ---------------------------------------------------------------------------
// Activities
// ---------------------------------------------------------------------------

// GetByID returns the activity with its assigned workspace member.
func (c *Client) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	var out struct {
		Activity *activityDTO `json:"activity"`
	}
	if err := c.do(ctx, opActivity, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	if out.Activity == nil {
		return nil, fmt.Errorf("activity %s: %w", id, domain.ErrNotFound)
	}

	d := out.Activity
	a := &domain.Activity{
		ID:                        d.ID,
		Title:                     d.Title,
		Type:                      domain.ActivityType(d.Type),
		AssigneeID:                d.AssigneeID,
		WorkspaceMemberAssigneeID: d.WorkspaceMemberAssigneeID,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}
	if d.WorkspaceMemberAssignee != nil {
		m := d.WorkspaceMemberAssignee.toDomain()
		a.AccountOwner = &m
	}
	return a, nil
}

// UpdateOne applies the connect directives of upd in one mutation. A nil
// connect id is sent as an empty connect, which clears the relation.
func (c *Client) UpdateOne(ctx context.Context, upd domain.RecordUpdate) error {
	if upd.ObjectNameSingular != domain.ObjectActivity {
		return domain.NewValidationError("object_name_singular", "unsupported object "+upd.ObjectNameSingular)
	}
	if upd.IDToUpdate == uuid.Nil {
		return domain.NewValidationError("id_to_update", "required")
	}
	if len(upd.Connections) == 0 {
		return domain.NewValidationError("connections", "at least one relation is required")
	}

	data := make(map[string]any, len(upd.Connections))
	for field, conn := range upd.Connections {
		switch field {
		case domain.FieldAssignee, domain.FieldWorkspaceMemberAssignee:
		default:
			return domain.NewValidationError("connections", "unknown relation "+field)
		}
		connect := map[string]any{}
		if conn.ID != nil {
			connect["id"] = *conn.ID
		}
		data[field] = map[string]any{"connect": connect}
	}

	var out struct {
		UpdateOneActivity struct {
			ID uuid.UUID `json:"id"`
		} `json:"updateOneActivity"`
	}
	vars := map[string]any{"id": upd.IDToUpdate, "data": data}
	return c.do(ctx, opUpdate, vars, &out)
}
