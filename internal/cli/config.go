package cli

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/comandalabs/comanda/internal/query"
)

// Environment configuration, loaded from the process environment with
// an optional .env file (development convenience; a missing file is
// not an error).
const (
	envDatabaseURL = "DATABASE_URL"
	envMaxLimit    = "QUERY_MAX_LIMIT"
)

func loadDotEnv() {
	_ = godotenv.Load()
}

// databaseURL resolves the connection string: explicit flag first,
// then DATABASE_URL.
func databaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	loadDotEnv()
	return os.Getenv(envDatabaseURL)
}

// maxLimitFromEnv returns the configured request limit bound, falling
// back to the DSL default.
func maxLimitFromEnv() int {
	loadDotEnv()
	if v := os.Getenv(envMaxLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return query.DefaultMaxLimit
}
