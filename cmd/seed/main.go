// Command main runs the database seeder for Doubtdesk.
package main

import (
	"flag"
	"log"

	"doubtdesk/internal/config"
	"doubtdesk/internal/database"
	"doubtdesk/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numQuestions := flag.Int("questions", 100, "Number of questions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, cfg.OrgDomain)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(*numUsers, *numQuestions); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. All seeded accounts use the password: password123")
}
