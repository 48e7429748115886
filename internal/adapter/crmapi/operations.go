package crmapi

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSDL string

const (
	opSearchUsers = "SearchUsers"
	opMembers     = "WorkspaceMembers"
	opActivity    = "Activity"
	opUpdate      = "UpdateOneActivity"
	opPing        = "Ping"
)

const userFields = `id email displayName firstName lastName avatarUrl createdAt updatedAt`

const memberFields = `id userId firstName lastName createdAt`

var operations = map[string]string{
	opPing: `query Ping { __typename }`,
	opSearchUsers: `query SearchUsers($input: UserSearchInput!) {
  searchUsers(input: $input) { ` + userFields + ` }
}`,
	opMembers: `query WorkspaceMembers($where: WorkspaceMemberWhereInput!) {
  workspaceMembers(where: $where) { ` + memberFields + ` }
}`,
	opActivity: `query Activity($id: UUID!) {
  activity(id: $id) {
    id title type assigneeId workspaceMemberAssigneeId createdAt updatedAt
    workspaceMemberAssignee { ` + memberFields + ` }
  }
}`,
	opUpdate: `mutation UpdateOneActivity($id: UUID!, $data: ActivityUpdateInput!) {
  updateOneActivity(id: $id, data: $data) { id }
}`,
}

// loadOperations parses the embedded schema and validates every operation
// document against it.
func loadOperations() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
	if err != nil {
		return nil, fmt.Errorf("crmapi: load schema: %w", err)
	}

	for name, doc := range operations {
		query, errs := gqlparser.LoadQuery(schema, doc)
		if len(errs) > 0 {
			return nil, fmt.Errorf("crmapi: operation %s: %w", name, errs)
		}
		if op := query.Operations.ForName(name); op == nil {
			return nil, fmt.Errorf("crmapi: operation %s: not defined by its document", name)
		}
	}

	return schema, nil
}
