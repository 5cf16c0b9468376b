package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/cartify/auth-service/config"
	"github.com/cartify/auth-service/pkg/helpers"
)

// Seeds a verified admin account for local development. Safe to run twice.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@cartify.local")
	password := envOr("SEED_ADMIN_PASSWORD", "admin12345")
	fullName := envOr("SEED_ADMIN_NAME", "Cartify Admin")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, role, account_status, verified)
		VALUES (lower($1), $2, 'Admin', 'active', true)
		ON CONFLICT (email) DO UPDATE SET role = 'Admin', verified = true, updated_at = now()
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO profiles (user_id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = now()
	`, id, fullName); err != nil {
		log.Fatalf("failed to seed admin profile: %v", err)
	}

	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
