package domain

import (
	"time"

	"github.com/google/uuid"
)

// ObjectActivity is the object name used when updating activity records.
const ObjectActivity = "activity"

// Relation field names of an activity that accept connect directives.
const (
	FieldAssignee                = "assignee"
	FieldWorkspaceMemberAssignee = "workspaceMemberAssignee"
)

// ActivityType distinguishes tasks from notes.
type ActivityType string

const (
	ActivityTypeTask ActivityType = "TASK"
	ActivityTypeNote ActivityType = "NOTE"
)

func (t ActivityType) String() string { return string(t) }

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeTask, ActivityTypeNote:
		return true
	}
	return false
}

// Activity is a CRM task or note that can be assigned to a person.
type Activity struct {
	ID                        uuid.UUID
	Title                     string
	Type                      ActivityType
	AssigneeID                *uuid.UUID
	WorkspaceMemberAssigneeID *uuid.UUID
	// AccountOwner is the currently assigned workspace member, if loaded.
	AccountOwner *WorkspaceMember
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Connect is a relation connect directive. A nil ID connects nothing,
// which stores the relation as empty.
type Connect struct {
	ID *uuid.UUID
}

// RecordUpdate is a partial update of one record: relation fields mapped
// to connect directives.
type RecordUpdate struct {
	ObjectNameSingular string
	IDToUpdate         uuid.UUID
	Connections        map[string]Connect
}
