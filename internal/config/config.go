package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	LogMode           string
	GinMode           string
	StatsCacheTTL     time.Duration
	CandidateCacheTTL time.Duration
	CORSOrigins       []string
	AdminEnabled      bool
	AdminToken        string
}

// Load reads .env (if present) then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	return Config{
		Port: String("PORT", "8080"),
		// Fallback for local dev if not set
		DatabaseURL:       String("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=hemicycle port=5432 sslmode=disable TimeZone=Europe/Paris"),
		RedisURL:          String("REDIS_URL", ""),
		LogMode:           String("LOG_MODE", "dev"),
		GinMode:           String("GIN_MODE", "debug"),
		StatsCacheTTL:     Duration("STATS_CACHE_TTL", 6*time.Hour),
		CandidateCacheTTL: Duration("CANDIDATE_CACHE_TTL", 30*time.Minute),
		CORSOrigins:       List("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AdminEnabled:      Bool("ADMIN_ENABLED", false),
		AdminToken:        String("ADMIN_TOKEN", ""),
	}
}

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Bool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Duration accepts Go durations ("6h", "90m").
func Duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// List splits a comma-separated variable, dropping blanks.
func List(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
