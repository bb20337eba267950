package main

import (
	"github.com/joho/godotenv"

	"lexis/internal/cli"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cli.Execute()
}
