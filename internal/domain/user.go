package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a CRM user account as returned by the user search.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	AvatarURL   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkspaceMember links a user account to a workspace.
type WorkspaceMember struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// FullName joins first and last name, skipping empty parts.
func (m WorkspaceMember) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// UserCursor is a keyset position in a user search ordered by
// (first name, id).
type UserCursor struct {
	FirstName string
	ID        uuid.UUID
}

// UserFilter narrows a user search.
type UserFilter struct {
	// Search matches first or last name case-insensitively as a substring.
	// Empty matches every user.
	Search string
	// IDs restricts the result to these users when non-empty.
	IDs []uuid.UUID
	// ExcludeIDs removes these users from the result.
	ExcludeIDs []uuid.UUID
	// After returns only users strictly after the cursor.
	After *UserCursor
	Limit int
}

// CursorOf returns the keyset position of u.
func CursorOf(u User) *UserCursor {
	return &UserCursor{FirstName: u.FirstName, ID: u.ID}
}
