package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port            string
	SQLiteDBPath    string
	DedupWindow     time.Duration
	LogLevel        string
	OperatorWorkers int
}

// ProcessEnvironmentVariables builds the configuration from defaults, an optional
// .env file in the working directory and the process environment, in that order.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	env := Config{
		Port:            "9446",
		SQLiteDBPath:    "./data/expenses.db",
		DedupWindow:     5 * time.Minute,
		LogLevel:        "info",
		OperatorWorkers: 1,
	}

	envPort := os.Getenv("PORT")
	envSQLiteDBPath := os.Getenv("SQLITE_DB_PATH")
	envDedupWindow := os.Getenv("DEDUP_WINDOW")
	envLogLevel := os.Getenv("LOG_LEVEL")
	envOperatorWorkers := os.Getenv("OPERATOR_WORKERS")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envSQLiteDBPath) != 0 {
		env.SQLiteDBPath = envSQLiteDBPath
	}

	if len(envDedupWindow) != 0 {
		d, err := time.ParseDuration(envDedupWindow)
		if err != nil {
			return nil, fmt.Errorf("DEDUP_WINDOW: %w", err)
		}
		env.DedupWindow = d
	}

	if len(envLogLevel) != 0 {
		env.LogLevel = envLogLevel
	}

	if len(envOperatorWorkers) != 0 {
		n, err := strconv.Atoi(envOperatorWorkers)
		if err != nil {
			return nil, fmt.Errorf("OPERATOR_WORKERS: %w", err)
		}
		env.OperatorWorkers = n
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}

	return &env, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "sqlite database path cannot be empty")
	}

	if c.DedupWindow <= 0 {
		problems = append(problems, fmt.Sprintf("invalid dedup window %v: must be positive", c.DedupWindow))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if c.OperatorWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid operator workers %d: must be at least 1", c.OperatorWorkers))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
