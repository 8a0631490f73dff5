// Script to seed the database with sample users and diary entries.
// Usage: go run scripts/seed/main.go
package main

import (
	"fmt"
	"log"

	"github.com/noctalab/sleep-forecast/internal/config"
	"github.com/noctalab/sleep-forecast/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	fmt.Println("\nSample user IDs for testing:")
	fmt.Println("  11111111-1111-1111-1111-111111111111 (steady, Europe/Amsterdam)")
	fmt.Println("  22222222-2222-2222-2222-222222222222 (steady, America/New_York)")
	fmt.Println("  33333333-3333-3333-3333-333333333333 (declining, Asia/Tokyo)")
	fmt.Println("  44444444-4444-4444-4444-444444444444 (steady, Australia/Sydney)")
}
