package config

import "os"

type Config struct {
	Port         string
	Env          string
	PostgresURL  string
	MongoURI     string
	JWTSecret    string
	CursorSecret string
}

func Load() *Config {
	jwtSecret := getEnv("JWT_SECRET", "supersecretjwtkey")
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresURL: getEnv("POSTGRES_CONN_STR", "postgres://localhost:5432/conduit"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		JWTSecret:   jwtSecret,
		// Pagination cursors are signed with their own secret; falls back
		// to the JWT secret when unset.
		CursorSecret: getEnv("CURSOR_SECRET", jwtSecret),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
