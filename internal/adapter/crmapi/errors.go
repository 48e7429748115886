package crmapi

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

// sentinelByCode maps GraphQL error extension codes to domain errors.
var sentinelByCode = map[string]error{
	"NOT_FOUND":       domain.ErrNotFound,
	"ALREADY_EXISTS":  domain.ErrAlreadyExists,
	"UNAUTHENTICATED": domain.ErrUnauthorized,
	"FORBIDDEN":       domain.ErrForbidden,
	"CONFLICT":        domain.ErrConflict,
}

// mapErrors converts the first GraphQL error to a domain error. Validation
// codes keep the error's field and message; unknown codes are treated as an
// upstream failure.
func mapErrors(list gqlerror.List) error {
	first := list[0]
	code, _ := first.Extensions["code"].(string)

	switch code {
	case "VALIDATION", "BAD_USER_INPUT", "GRAPHQL_VALIDATION_FAILED":
		return domain.NewValidationError(errorField(first), first.Message)
	}

	if sentinel, ok := sentinelByCode[code]; ok {
		return errors.Join(sentinel, list)
	}
	return errors.Join(domain.ErrUnavailable, list)
}

// errorField picks the offending field: the "field" extension, else the last
// path element.
func errorField(e *gqlerror.Error) string {
	if field, ok := e.Extensions["field"].(string); ok && field != "" {
		return field
	}
	if n := len(e.Path); n > 0 {
		if name, ok := e.Path[n-1].(ast.PathName); ok {
			return string(name)
		}
	}
	return "input"
}
