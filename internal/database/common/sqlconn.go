package common

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// SQLDialect carries the per-driver differences of database/sql stores.
type SQLDialect interface {
	Placeholder() squirrel.PlaceholderFormat
	// MaxParams is the bind parameter limit of one statement.
	MaxParams() int
	// Truncate empties table on conn. The name is already validated.
	Truncate(ctx context.Context, conn *sql.Conn, table string) error
	IsUndefinedTable(err error) bool
}

// SQLConn implements Conn on a dedicated database/sql connection.
type SQLConn struct {
	conn    *sql.Conn
	dialect SQLDialect
}

func NewSQLConn(ctx context.Context, db *sql.DB, dialect SQLDialect) (*SQLConn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	return &SQLConn{conn: conn, dialect: dialect}, nil
}

func (c *SQLConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, dialect: c.dialect}, nil
}

func (c *SQLConn) Truncate(ctx context.Context, table string) TruncateResult {
	if !ValidIdentifier(table) {
		return TruncateResult{Table: table, Status: Failed, Err: fmt.Errorf("invalid table name: %s", table)}
	}
	err := c.dialect.Truncate(ctx, c.conn, table)
	return ClassifyTruncate(table, err, c.dialect.IsUndefinedTable)
}

func (c *SQLConn) Close() error {
	return c.conn.Close()
}

type sqlTx struct {
	tx      *sql.Tx
	dialect SQLDialect
}

func (t *sqlTx) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return InsertChunked(t.dialect.Placeholder(), t.dialect.MaxParams(), table, columns, rows, func(query string, args []any) (int64, error) {
		res, err := t.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (t *sqlTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(context.Context) error {
	return t.tx.Rollback()
}
