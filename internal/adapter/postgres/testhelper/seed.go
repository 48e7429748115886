package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
)

func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with the given names and a unique email.
func SeedUser(t *testing.T, pool *pgxpool.Pool, firstName, lastName string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := domain.User{
		ID:          uuid.New(),
		Email:       "user-" + uniqueSuffix() + "@example.com",
		DisplayName: firstName + " " + lastName,
		FirstName:   firstName,
		LastName:    lastName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, display_name, first_name, last_name, avatar_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.DisplayName, u.FirstName, u.LastName, u.AvatarURL, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return u
}

// SeedWorkspaceMember inserts a workspace membership for user.
func SeedWorkspaceMember(t *testing.T, pool *pgxpool.Pool, user domain.User) domain.WorkspaceMember {
	t.Helper()

	m := domain.WorkspaceMember{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO workspace_members (id, user_id, first_name, last_name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.FirstName, m.LastName, m.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkspaceMember: %v", err)
	}

	return m
}

// SeedActivity inserts an unassigned task.
func SeedActivity(t *testing.T, pool *pgxpool.Pool) domain.Activity {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := domain.Activity{
		ID:        uuid.New(),
		Title:     "Task " + uniqueSuffix(),
		Type:      domain.ActivityTypeTask,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO activities (id, title, type, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Title, string(a.Type), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity: %v", err)
	}

	return a
}
