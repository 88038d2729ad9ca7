package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

type Store struct {
	config *pgx.ConnConfig
}

func New() *Store {
	return &Store{}
}

func (s *Store) Connect(ctx context.Context, url string) error {
	config, err := pgx.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Money values arrive as decimal strings and need the described
	// parameter types to bind to NUMERIC columns.
	config.DefaultQueryExecMode = pgx.QueryExecModeDescribeExec

	probe, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer probe.Close(ctx)
	if err := probe.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	s.config = config
	return nil
}

func (s *Store) NewConn(ctx context.Context) (common.Conn, error) {
	if s.config == nil {
		return nil, errors.New("postgres store is not connected")
	}
	conn, err := pgx.ConnectConfig(ctx, s.config.Copy())
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	return &Conn{conn: conn}, nil
}

func (s *Store) Close() error {
	return nil
}

type Conn struct {
	conn *pgx.Conn
}

func (c *Conn) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (c *Conn) Truncate(ctx context.Context, table string) common.TruncateResult {
	if !common.ValidIdentifier(table) {
		return common.TruncateResult{Table: table, Status: common.Failed, Err: fmt.Errorf("invalid table name: %s", table)}
	}
	_, err := c.conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pq.QuoteIdentifier(table)))
	return common.ClassifyTruncate(table, err, IsUndefinedTable)
}

func (c *Conn) Close() error {
	return c.conn.Close(context.Background())
}

type Tx struct {
	tx pgx.Tx
}

func (t *Tx) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return common.InsertChunked(squirrel.Dollar, common.MaxParamsPostgres, table, columns, rows, func(query string, args []any) (int64, error) {
		tag, err := t.tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// IsUndefinedTable reports whether err is PostgreSQL's missing relation error.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}
