//go:build tools

package tools

// Developer tooling, not compiled into any binary.
//
//   - goose (go.mod tool directive): `go tool goose -dir migrations postgres "$DATABASE_DSN" status`
//   - moq: regenerates the *_mock_test.go files next to each consumer interface,
//     e.g. `moq -out user_repo_mock_test.go -pkg assignee . userRepo`
