// seed inserts test accounts into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mingle-social/mingle/internal/infrastructure/postgres"
)

const seedPassword = "hunter2hunter2"

type accountSpec struct {
	email  string
	name   string
	role   string
	status string
}

var accounts = []accountSpec{
	{"admin@mingle.local", "Seed Admin", "admin", "active"},
	{"alice@mingle.local", "Alice", "user", "active"},
	{"bob@mingle.local", "Bob", "user", "pending_verification"},
	{"mallory@mingle.local", "Mallory", "user", "suspended"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	var inserted, skipped int
	for _, spec := range accounts {
		var customerID string
		err := pool.QueryRow(ctx, `
			INSERT INTO customers (email, name, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING
			RETURNING id`,
			spec.email, spec.name, spec.role,
		).Scan(&customerID)
		if err != nil {
			// ON CONFLICT DO NOTHING returns no row for existing emails.
			skipped++
			continue
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO accounts (customer_id, password_hash, status)
			VALUES ($1, $2, $3)`,
			customerID, string(hash), spec.status,
		)
		if err != nil {
			pool.Close()
			log.Fatalf("insert account %s: %v", spec.email, err)
		}
		inserted++
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Accounts created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Printf("  Password for all: %s\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in as an active user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"alice@mingle.local\",\"password\":\"%s\"}'\n", seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — call an authenticated endpoint:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/me -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    alice@mingle.local    →  login succeeds")
	fmt.Println("    bob@mingle.local      →  403 (account not verified; see server log for activation link)")
	fmt.Println("    mallory@mingle.local  →  403 (account suspended)")
	fmt.Println("    admin@mingle.local    →  can POST /admin/accounts/:customerID/suspend")
}
