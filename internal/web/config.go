package web

import "os"

// Config holds server configuration.
type Config struct {
	JWTSecret  string
	CORSOrigin string // origin allowed to call the API, e.g. the dashboard dev server
	DevMode    bool
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		JWTSecret:  os.Getenv("VD_JWT_SECRET"),
		CORSOrigin: envOrDefault("VD_CORS_ORIGIN", "http://localhost:3000"),
		DevMode:    os.Getenv("VD_DEV_MODE") == "true",
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
