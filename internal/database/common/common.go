package common

import (
	"context"
	"fmt"
	"math"
	"regexp"

	"github.com/Masterminds/squirrel"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func ValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// Conn is one dedicated store connection. It is owned by a single caller at a
// time, which the connection pool guarantees.
type Conn interface {
	Begin(ctx context.Context) (Tx, error)
	// Truncate empties a table. It never fails the caller; the outcome is
	// reported in the result.
	Truncate(ctx context.Context, table string) TruncateResult
	Close() error
}

type Tx interface {
	// InsertRows writes all rows inside the transaction and returns the number
	// of rows the store reports as inserted. Rows are split over as many
	// statements as the driver's bind parameter limit requires.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TruncateStatus int

const (
	Truncated TruncateStatus = iota
	// NotFound means the table does not exist. Cleanup treats this as benign.
	NotFound
	Failed
)

func (s TruncateStatus) String() string {
	switch s {
	case Truncated:
		return "truncated"
	case NotFound:
		return "not found"
	default:
		return "failed"
	}
}

func (s TruncateStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type TruncateResult struct {
	Table  string
	Status TruncateStatus
	Err    error
}

// ClassifyTruncate maps a truncate error to a result using the dialect's
// missing-table check.
func ClassifyTruncate(table string, err error, isUndefinedTable func(error) bool) TruncateResult {
	switch {
	case err == nil:
		return TruncateResult{Table: table, Status: Truncated}
	case isUndefinedTable(err):
		return TruncateResult{Table: table, Status: NotFound, Err: err}
	default:
		return TruncateResult{Table: table, Status: Failed, Err: err}
	}
}

// Bind parameter ceilings per statement.
const (
	MaxParamsPostgres = 65535
	MaxParamsMySQL    = 65535
	MaxParamsSQLite   = 32766
)

// RowsPerStatement is how many rows of width columns fit in one INSERT under
// maxParams bind parameters. At least one row always fits.
func RowsPerStatement(columns, maxParams int) int {
	if columns < 1 || maxParams < 1 {
		return math.MaxInt
	}
	return max(1, maxParams/columns)
}

// InsertChunked writes rows with one multi-row INSERT per chunk of at most
// maxParams bind parameters. exec runs a single statement and returns the
// rows it affected.
func InsertChunked(format squirrel.PlaceholderFormat, maxParams int, table string, columns []string, rows [][]any, exec func(query string, args []any) (int64, error)) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("no rows to insert into %s", table)
	}

	per := RowsPerStatement(len(columns), maxParams)
	var total int64
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		query, args, err := BuildInsert(format, table, columns, rows[start:end])
		if err != nil {
			return total, err
		}
		n, err := exec(query, args)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// BuildInsert renders a multi-row INSERT for rows in the given placeholder
// format.
func BuildInsert(format squirrel.PlaceholderFormat, table string, columns []string, rows [][]any) (string, []any, error) {
	if !ValidIdentifier(table) {
		return "", nil, fmt.Errorf("invalid table name: %s", table)
	}
	for _, col := range columns {
		if !ValidIdentifier(col) {
			return "", nil, fmt.Errorf("invalid column name in table %s: %s", table, col)
		}
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("no rows to insert into %s", table)
	}

	q := squirrel.Insert(table).Columns(columns...).PlaceholderFormat(format)
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("row %d of %s has %d values, want %d", i, table, len(row), len(columns))
		}
		q = q.Values(row...)
	}
	return q.ToSql()
}
