// Command seed populates the database with generated demo data.
package main

import (
	"context"
	"flag"
	"log"

	"socialconnect/internal/config"
	"socialconnect/internal/database"
	"socialconnect/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxFollows := flag.Int("follows", 8, "Maximum follow edges per user")
	maxLikes := flag.Int("likes", 10, "Maximum likes per post")
	maxComments := flag.Int("comments", 4, "Maximum comments per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.MaxFollows = *maxFollows
	opts.MaxLikes = *maxLikes
	opts.MaxComments = *maxComments
	opts.Clean = *shouldClean

	if err := seed.Seed(context.Background(), db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All seeded accounts use the password %q", seed.SeedPassword)
}
