package main

import (
	"log"

	"messenger_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine, configuration falls back to the yaml file.
	_ = godotenv.Load()

	if err := app.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
