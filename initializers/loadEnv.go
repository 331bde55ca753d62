package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env when present. A device provisioned through real
// environment variables has no file, which is fine.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the process environment")
	}
}
