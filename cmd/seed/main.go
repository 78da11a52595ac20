package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/velora-social/velora-api/config"
	"github.com/velora-social/velora-api/pkg/helpers"
)

// Seeds the base roles, a starter permission set and one admin account.
// Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@velora.local"
	password := "changeme123"
	name := "Velora Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	legacyRoles, _ := json.Marshal([]string{"ROLE_USER", "ROLE_ADMIN"})
	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password, name, legacy_roles)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name, legacyRoles).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	// Ensure base roles exist
	var adminRoleID, userRoleID string
	if err := db.QueryRow(`
		INSERT INTO roles (name, description) VALUES ('ROLE_ADMIN', 'Full administrative access')
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id
	`).Scan(&adminRoleID); err != nil {
		log.Fatalf("failed to upsert ROLE_ADMIN: %v", err)
	}
	if err := db.QueryRow(`
		INSERT INTO roles (name, description) VALUES ('ROLE_USER', 'Default member role')
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id
	`).Scan(&userRoleID); err != nil {
		log.Fatalf("failed to upsert ROLE_USER: %v", err)
	}
	fmt.Printf("roles ensured: ROLE_ADMIN=%s ROLE_USER=%s\n", adminRoleID, userRoleID)

	// Starter permission set attached to ROLE_USER
	basePermissions := map[string]string{
		"edit_own_profile": "Edit the profile you own",
		"follow_users":     "Follow and unfollow other users",
		"view_profiles":    "View public profiles",
	}
	for permName, desc := range basePermissions {
		var permID string
		if err := db.QueryRow(`
			INSERT INTO permissions (name, description) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, permName, desc).Scan(&permID); err != nil {
			log.Fatalf("failed to upsert permission %s: %v", permName, err)
		}
		if _, err := db.Exec(`
			INSERT INTO role_permissions (role_id, permission_id)
			VALUES ($1, $2)
			ON CONFLICT (role_id, permission_id) DO NOTHING
		`, userRoleID, permID); err != nil {
			log.Fatalf("failed to attach permission %s: %v", permName, err)
		}
	}
	fmt.Println("base permissions ensured")

	// Assign ROLE_ADMIN to the seeded account
	if _, err := db.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, id, adminRoleID); err != nil {
		log.Fatalf("failed to assign ROLE_ADMIN: %v", err)
	}
	fmt.Println("assigned ROLE_ADMIN to seeded account (if not already)")
}
