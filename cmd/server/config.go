package main

import "time"

// Config is read from the environment.
type Config struct {
	Port           string        `env:"PORT" env-default:"8080" env-description:"HTTP server port"`
	DBPath         string        `env:"DB_PATH" env-default:"calendars.db" env-description:"SQLite database path, \":memory:\" for in-memory"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" env-separator:"," env-description:"CORS origins, comma separated"`
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" env-default:"5m" env-description:"How often stored calendars are reloaded, 0 disables"`
}
