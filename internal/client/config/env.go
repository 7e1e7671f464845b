package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; real
// environment variables win over .env entries.
//
// Recognized variables:
//
//	FARMLINGO_API_URL     base URL of the backend
//	FARMLINGO_STATE_DB    path of the local state database
//	FARMLINGO_TOKEN_FILE  path to an identity session token
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("FARMLINGO_API_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv("FARMLINGO_STATE_DB"); ok {
		cfg.StateDBPath = v
	}
	if v, ok := os.LookupEnv("FARMLINGO_TOKEN_FILE"); ok {
		cfg.TokenFile = v
	}
}
