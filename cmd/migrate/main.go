// Command migrate applies the database schema.
package main

import (
	"log"

	"doubtdesk/internal/config"
	"doubtdesk/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect runs auto-migration as part of opening the connection.
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("migrations applied")
}
