// migrate applies the embedded SQL migrations: go run ./cmd/migrate -direction up
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"employee-auth/internal/db/migrate"

	"github.com/joho/godotenv"
)

func main() {
	direction := flag.String("direction", migrate.Up, "Migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set")
		os.Exit(1)
	}

	if err := migrate.Run(dsn, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Println("migrations applied:", *direction)
}
