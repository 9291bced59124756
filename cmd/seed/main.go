// Command main runs the database seeder for Quillport.
package main

import (
	"flag"
	"log"

	"quillport/internal/config"
	"quillport/internal/database"
	"quillport/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts-per-user", defaults.PostsPerUser, "Number of posts per user")
	likeRatio := flag.Float64("like-ratio", defaults.LikeRatio, "Probability that a user likes a given post")
	maxDays := flag.Int("max-days", defaults.MaxDays, "Spread post creation over the trailing N days")
	fixtures := flag.String("fixtures", "", "Optional YAML fixture file applied before generated data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts each, like ratio %.2f\n", *numUsers, *postsPerUser, *likeRatio)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		Users:        *numUsers,
		PostsPerUser: *postsPerUser,
		LikeRatio:    *likeRatio,
		MaxDays:      *maxDays,
		FixturesPath: *fixtures,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All generated users have the password: quillport-dev")
}
