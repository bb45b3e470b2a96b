package main

import (
	"flag"
	"log"

	"pressroom/database"
	"pressroom/internal/models"
	"pressroom/internal/repository"

	"github.com/joho/godotenv"
)

// Development helper: creates a login and a handful of articles so the API
// has something to serve right after a fresh migration.
func main() {
	username := flag.String("username", "editor", "Username for the seeded account")
	password := flag.String("password", "changeme", "Password for the seeded account")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database.DB)
	if _, err := userRepo.CreateUser(*username, *password); err != nil {
		if err == repository.ErrUsernameTaken {
			log.Printf("User %q already exists, skipping", *username)
		} else {
			log.Fatalf("Failed to seed user: %v", err)
		}
	} else {
		log.Printf("Seeded user %q", *username)
	}

	articleRepo := repository.NewArticleRepository(database.DB)
	samples := []models.Article{
		{Title: "Welcome to Pressroom", Content: "First post on the new platform.", Category: "news", ImageIDs: []string{}, ImageURLs: []string{}},
		{Title: "Editorial guidelines", Content: "How we write and review articles.", Category: "opinion", ImageIDs: []string{}, ImageURLs: []string{}},
	}
	for i := range samples {
		if err := articleRepo.Create(&samples[i]); err != nil {
			log.Printf("Failed to seed article %q: %v", samples[i].Title, err)
			continue
		}
		log.Printf("Seeded article %q (id %d)", samples[i].Title, samples[i].ID)
	}
}
