package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("TTT_HOME", "")

	c := FromEnv()
	require.Equal(t, "8080", c.Port)
	require.Equal(t, ":8080", c.Addr())
	require.Equal(t, zerolog.InfoLevel, c.LogLevel)
	require.Empty(t, c.DBPath)
	require.Empty(t, c.Home)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PATH", "/tmp/games.db")
	t.Setenv("TTT_HOME", "/tmp/home")

	c := FromEnv()
	require.Equal(t, "9000", c.Port)
	require.Equal(t, zerolog.DebugLevel, c.LogLevel)
	require.Equal(t, "/tmp/games.db", c.DBPath)
	require.Equal(t, "/tmp/home", c.Home)
}

func TestFromEnvBadLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	require.Equal(t, zerolog.InfoLevel, FromEnv().LogLevel)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7001\nDB_PATH=games.db\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv.Load does not override variables that are already set.
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("DB_PATH", "")
	os.Unsetenv("DB_PATH")

	c := Load()
	require.Equal(t, "7001", c.Port)
	require.Equal(t, "games.db", c.DBPath)
}
