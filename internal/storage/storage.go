package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stephenafamo/bob"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/expense-server/internal/config"
)

// Storage owns the sqlite handle. Reads run directly on it; writes run inside a
// transaction obtained from Write.
type Storage struct {
	DB   *sql.DB
	exec bob.DB
}

// NewStorage applies pending migrations and opens a single-connection pool on the
// configured file.
func NewStorage(env *config.Config) (*Storage, error) {
	if _, err := RunMigrations(env.SQLiteDBPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn(env.SQLiteDBPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps reads and writes ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{
		DB:   db,
		exec: bob.NewDB(db),
	}, nil
}

func (s *Storage) Read() *Reader {
	return NewReader(s.exec)
}

// Write begins a transaction. The caller must Commit or Rollback the returned Writer.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.exec.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}
