// Command issue-token mints an access token signed with the configured
// AUTH_JWT_SECRET, for local development against the API.
//
// Usage:
//
//	issue-token --user=<uuid> [--workspace=<uuid>] [--ttl=1h]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/auth"
	"github.com/heartmarshall/crm-activity-backend/internal/config"
)

func main() {
	user := flag.String("user", "", "workspace member user id (token subject)")
	workspace := flag.String("workspace", "", "workspace id claim (optional)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to AUTH_ACCESS_TTL")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "Usage: issue-token --user=<uuid> [--workspace=<uuid>] [--ttl=1h]")
		os.Exit(1)
	}

	userID, err := uuid.Parse(*user)
	if err != nil {
		log.Fatalf("parse --user: %v", err)
	}

	var workspaceID uuid.UUID
	if *workspace != "" {
		if workspaceID, err = uuid.Parse(*workspace); err != nil {
			log.Fatalf("parse --workspace: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lifetime := cfg.Auth.AccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}
	if lifetime <= 0 {
		lifetime = 15 * time.Minute
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, lifetime).
		GenerateAccessToken(userID, workspaceID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
