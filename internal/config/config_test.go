package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SQLITE_DB_PATH", "DEDUP_WINDOW", "LOG_LEVEL", "OPERATOR_WORKERS"} {
		t.Setenv(key, "")
	}
}

func TestProcessEnvironmentVariables_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	env, err := ProcessEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "9446", env.Port)
	assert.Equal(t, "./data/expenses.db", env.SQLiteDBPath)
	assert.Equal(t, 5*time.Minute, env.DedupWindow)
	assert.Equal(t, "info", env.LogLevel)
	assert.Equal(t, 1, env.OperatorWorkers)
}

func TestProcessEnvironmentVariables_Overrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("SQLITE_DB_PATH", "/tmp/x.db")
	t.Setenv("DEDUP_WINDOW", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	env, err := ProcessEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "8080", env.Port)
	assert.Equal(t, "/tmp/x.db", env.SQLiteDBPath)
	assert.Equal(t, 90*time.Second, env.DedupWindow)
	assert.Equal(t, "debug", env.LogLevel)
}

func TestProcessEnvironmentVariables_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DEDUP_WINDOW", "five minutes")

	_, err := ProcessEnvironmentVariables()
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{
		Port:            "0",
		SQLiteDBPath:    "",
		DedupWindow:     0,
		LogLevel:        "loud",
		OperatorWorkers: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "sqlite database path")
	assert.Contains(t, err.Error(), "dedup window")
	assert.Contains(t, err.Error(), "log level")
	assert.Contains(t, err.Error(), "operator workers")
}
