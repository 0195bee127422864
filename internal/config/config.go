// Package config reads runtime settings from the environment.
// A .env file in the working directory is loaded first, when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full set of runtime settings.
type Config struct {
	LogLevel       string // LOG_LEVEL, zerolog level name
	Port           string // PORT
	DBPath         string // DB_PATH, sqlite file for users and solve runs
	WordsFile      string // WORDS_FILE, one word per line
	WordsURL       string // WORDS_URL, fetched when WORDS_FILE is unset
	DailyURL       string // DAILY_URL, word-of-the-day endpoint prefix
	DailySalt      string // DAILY_SALT, HMAC salt for the offline fallback
	JWTSecret      string // JWT_SECRET
	JWTExpiresDays int    // JWT_EXPIRES_DAYS
	CookieName     string // COOKIE_NAME
	ClientOrigin   string // CLIENT_ORIGIN, single CORS origin
	Production     bool   // APP_ENV == "production"
	MaxGuesses     int    // GAME_MAX_GUESSES, 0 = unlimited
}

// Load reads .env (ignored if missing) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "5175"),
		DBPath:         getEnv("DB_PATH", "./data/wordle-lab.db"),
		WordsFile:      os.Getenv("WORDS_FILE"),
		WordsURL:       os.Getenv("WORDS_URL"),
		DailyURL:       getEnv("DAILY_URL", "https://www.nytimes.com/svc/wordle/v2"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "wordle_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("APP_ENV") == "production",
		MaxGuesses:     envInt("GAME_MAX_GUESSES", 0),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def when unset or malformed.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
