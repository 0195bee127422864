package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "PORT", "DB_PATH", "WORDS_FILE", "JWT_EXPIRES_DAYS", "APP_ENV", "GAME_MAX_GUESSES"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "./data/wordle-lab.db", c.DBPath)
	assert.Empty(t, c.WordsFile)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.False(t, c.Production)
	assert.Equal(t, 0, c.MaxGuesses)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("GAME_MAX_GUESSES", "6")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WORDS_FILE", "/tmp/words.txt")

	c := FromEnv()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 3, c.JWTExpiresDays)
	assert.Equal(t, 6, c.MaxGuesses)
	assert.True(t, c.Production)
	assert.Equal(t, "/tmp/words.txt", c.WordsFile)
}

func TestFromEnv_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	assert.Equal(t, 14, FromEnv().JWTExpiresDays)
}
