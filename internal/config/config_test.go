package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/filter-server/internal/config"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "WORDS_FILE", "WORDS_DSN", "SESSION_SECRET",
	"SESSION_TTL_HOURS", "CLIENT_ORIGIN", "MATCH_LIMIT_MAX",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.LogConsole)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0, cfg.MatchLimitMax)
	assert.True(t, cfg.DevSecret())
	assert.Empty(t, cfg.Words.File)
	assert.Empty(t, cfg.Words.DSN)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("WORDS_FILE", "/tmp/words.txt")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("MATCH_LIMIT_MAX", "50")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.LogConsole)
	assert.Equal(t, "/tmp/words.txt", cfg.Words.File)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.False(t, cfg.DevSecret())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 50, cfg.MatchLimitMax)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LOG_LEVEL":         "loud",
		"LOG_FORMAT":        "xml",
		"SESSION_TTL_HOURS": "soon",
		"MATCH_LIMIT_MAX":   "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7777\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Port)
}

func TestLoadToleratesMissingEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
