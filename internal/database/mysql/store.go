package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/go-sql-driver/mysql"
)

// errNoSuchTable is ER_NO_SUCH_TABLE.
const errNoSuchTable = 1146

type Store struct {
	db *sql.DB
}

func New() *Store {
	return &Store{}
}

// Connect accepts a driver DSN or a mysql:// URL.
func (s *Store) Connect(ctx context.Context, url string) error {
	dsn, err := normalizeDSN(url)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping MySQL: %w", err)
	}
	s.db = db
	return nil
}

func normalizeDSN(url string) (string, error) {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		rest := strings.TrimPrefix(url, "mysql://")
		at := strings.LastIndex(rest, "@")
		slash := strings.Index(rest[at+1:], "/")
		if at < 0 || slash < 0 {
			return "", fmt.Errorf("invalid MySQL URL: %s", url)
		}
		host := rest[at+1 : at+1+slash]
		dsn = fmt.Sprintf("%s@tcp(%s)%s", rest[:at], host, rest[at+1+slash:])
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (s *Store) NewConn(ctx context.Context) (common.Conn, error) {
	if s.db == nil {
		return nil, errors.New("mysql store is not connected")
	}
	return common.NewSQLConn(ctx, s.db, dialect{})
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
	return common.MaxParamsMySQL
}

// Truncate disables foreign key checks around TRUNCATE, which MySQL
// otherwise refuses on referenced tables. The setting is session scoped and
// restored before the connection goes back to the pool.
func (dialect) Truncate(ctx context.Context, conn *sql.Conn, table string) (err error) {
	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return err
	}
	defer func() {
		if _, resetErr := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); resetErr != nil && err == nil {
			err = resetErr
		}
	}()
	_, err = conn.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE `%s`", table))
	return err
}

func (dialect) IsUndefinedTable(err error) bool {
	return IsUndefinedTable(err)
}

func IsUndefinedTable(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errNoSuchTable
}
