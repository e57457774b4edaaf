package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/pkg/helpers"

	"github.com/warblerhq/warbler/config"
)

// Seeds a couple of demo users, a follow edge between them, and a few
// messages. Safe to run repeatedly; everything upserts.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seedUsers := []struct {
		username string
		email    string
		bio      string
	}{
		{"tuckerdiane", "tuckerdiane@example.com", "Just here to warble."},
		{"curtisfamily", "curtisfamily@example.com", "Birdsong enthusiast."},
	}

	ids := make([]string, 0, len(seedUsers))
	for _, su := range seedUsers {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, image_url, header_image_url, bio)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (username) DO UPDATE SET bio = EXCLUDED.bio
			RETURNING id
		`, su.username, su.email, hash, entity.DefaultImageURL, entity.DefaultHeaderImageURL, su.bio).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", su.username, err)
		}
		ids = append(ids, id)
		fmt.Printf("seeded user: id=%s username=%s password=%s\n", id, su.username, password)
	}

	if _, err := db.Exec(`
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, ids[0], ids[1]); err != nil {
		log.Fatalf("failed to seed follow: %v", err)
	}

	texts := []string{
		"First warble!",
		"Is this thing on?",
		"Good morning, flock.",
	}
	for i, text := range texts {
		author := ids[i%len(ids)]
		if _, err := db.Exec(`
			INSERT INTO messages (user_id, text)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM messages WHERE user_id = $1 AND text = $2)
		`, author, text); err != nil {
			log.Fatalf("failed to seed message: %v", err)
		}
	}
	fmt.Println("seeded follow edge and demo messages")
}
