// Generates a bcrypt hash for seeding admin accounts.
//
// Usage: go run scripts/generate_password.go <password> [cost]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password> [cost]")
	}

	password := os.Args[1]
	cost := bcrypt.DefaultCost
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			log.Fatalf("Invalid cost %q: must be an integer between %d and %d", os.Args[2], bcrypt.MinCost, bcrypt.MaxCost)
		}
		cost = n
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Printf("Cost: %d\n", cost)
	fmt.Printf("Hash: %s\n", hash)
}
