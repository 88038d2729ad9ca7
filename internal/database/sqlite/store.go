package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/bulkgen/internal/database/common"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func New() *Store {
	return &Store{}
}

// Connect opens the database file. Foreign keys are enforced and writers wait
// on a locked database instead of failing at once.
func (s *Store) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) NewConn(ctx context.Context) (common.Conn, error) {
	if s.db == nil {
		return nil, errors.New("sqlite store is not connected")
	}
	return common.NewSQLConn(ctx, s.db, dialect{})
}

// DB exposes the underlying handle for schema setup and checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type dialect struct{}

func (dialect) Placeholder() squirrel.PlaceholderFormat {
	return squirrel.Question
}

func (dialect) MaxParams() int {
	return common.MaxParamsSQLite
}

func (dialect) Truncate(ctx context.Context, conn *sql.Conn, table string) error {
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "%s"`, table)); err != nil {
		return err
	}
	// sqlite_sequence only exists once an AUTOINCREMENT table does
	_, err := conn.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
	if IsUndefinedTable(err) {
		return nil
	}
	return err
}

func (dialect) IsUndefinedTable(err error) bool {
	return IsUndefinedTable(err)
}

func IsUndefinedTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
