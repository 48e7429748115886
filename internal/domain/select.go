package domain

import "github.com/google/uuid"

// EntityType tags an EntityForSelect with the kind of record it wraps.
type EntityType string

const (
	EntityTypeUser            EntityType = "User"
	EntityTypeWorkspaceMember EntityType = "WorkspaceMember"
)

// AvatarType controls how a picker row renders its avatar.
type AvatarType string

const (
	AvatarTypeRounded AvatarType = "rounded"
	AvatarTypeSquared AvatarType = "squared"
)

// EntityForSelect is the view-model row shown by single/multi-entity pickers.
type EntityForSelect struct {
	EntityType     EntityType
	ID             uuid.UUID
	Name           string
	FirstName      string
	LastName       string
	AvatarType     AvatarType
	AvatarURL      string
	OriginalEntity *User
}

// UserForSelect maps a user search result into a picker row.
func UserForSelect(u User) EntityForSelect {
	avatar := ""
	if u.AvatarURL != nil {
		avatar = *u.AvatarURL
	}
	orig := u
	return EntityForSelect{
		EntityType:     EntityTypeUser,
		ID:             u.ID,
		Name:           u.DisplayName,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		AvatarType:     AvatarTypeRounded,
		AvatarURL:      avatar,
		OriginalEntity: &orig,
	}
}
