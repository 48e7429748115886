package domain

import "github.com/google/uuid"

// Operand is the comparison a filter applies to its field.
type Operand string

const (
	OperandIs             Operand = "is"
	OperandIsNot          Operand = "isNot"
	OperandContains       Operand = "contains"
	OperandDoesNotContain Operand = "doesNotContain"
	OperandGreaterThan    Operand = "greaterThan"
	OperandLessThan       Operand = "lessThan"
	OperandIsEmpty        Operand = "isEmpty"
	OperandIsNotEmpty     Operand = "isNotEmpty"
	OperandIsRelative     Operand = "isRelative"
	OperandIsInPast       Operand = "isInPast"
	OperandIsInFuture     Operand = "isInFuture"
	OperandIsToday        Operand = "isToday"
	OperandIsBefore       Operand = "isBefore"
	OperandIsAfter        Operand = "isAfter"
)

func (o Operand) String() string { return string(o) }

func (o Operand) IsValid() bool {
	switch o {
	case OperandIs, OperandIsNot, OperandContains, OperandDoesNotContain,
		OperandGreaterThan, OperandLessThan, OperandIsEmpty, OperandIsNotEmpty,
		OperandIsRelative, OperandIsInPast, OperandIsInFuture, OperandIsToday,
		OperandIsBefore, OperandIsAfter:
		return true
	}
	return false
}

// FilterDefinition describes a filterable field of an object.
type FilterDefinition struct {
	FieldMetadataID                    uuid.UUID `json:"fieldMetadataId"`
	Label                              string    `json:"label"`
	IconName                           string    `json:"iconName,omitempty"`
	Type                               string    `json:"type"`
	RelationObjectMetadataNameSingular string    `json:"relationObjectMetadataNameSingular,omitempty"`
}

// Filter is one filter condition applied to a view.
type Filter struct {
	ID                uuid.UUID  `json:"id"`
	FieldMetadataID   uuid.UUID  `json:"fieldMetadataId"`
	Operand           Operand    `json:"operand"`
	Value             string     `json:"value"`
	DisplayValue      string     `json:"displayValue"`
	DefinitionLabel   string     `json:"definitionLabel,omitempty"`
	ViewFilterGroupID *uuid.UUID `json:"viewFilterGroupId,omitempty"`
}

// SameCondition reports whether f and other describe the same logical
// condition: the same field inside the same filter group.
func (f Filter) SameCondition(other Filter) bool {
	if f.FieldMetadataID != other.FieldMetadataID {
		return false
	}
	switch {
	case f.ViewFilterGroupID == nil && other.ViewFilterGroupID == nil:
		return true
	case f.ViewFilterGroupID == nil || other.ViewFilterGroupID == nil:
		return false
	default:
		return *f.ViewFilterGroupID == *other.ViewFilterGroupID
	}
}
