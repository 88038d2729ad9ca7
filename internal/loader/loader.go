// Package loader writes generated records to the store in fixed-size
// batches. Every batch is its own transaction on a pooled connection, so a
// failure keeps all earlier batches committed.
package loader

import (
	"context"
	"fmt"

	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/Rana718/bulkgen/internal/pool"
)

// BatchCommitError reports the batch that failed. Batch is 1-based and
// Committed counts the rows of the batches before it.
type BatchCommitError struct {
	Table     string
	Batch     int
	Batches   int
	Committed int64
	Err       error
}

func (e *BatchCommitError) Error() string {
	return fmt.Sprintf("batch %d/%d of %s failed (%d rows committed): %v", e.Batch, e.Batches, e.Table, e.Committed, e.Err)
}

func (e *BatchCommitError) Unwrap() error { return e.Err }

// Progress is called after each committed batch.
type Progress func(table string, committed int64, total int)

type Loader struct {
	pool      *pool.Pool[common.Conn]
	batchSize int
	progress  Progress
}

func New(p *pool.Pool[common.Conn], batchSize int, progress Progress) *Loader {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Loader{pool: p, batchSize: batchSize, progress: progress}
}

func (l *Loader) BatchSize() int { return l.batchSize }

// Batches is the number of batches n records are split into.
func (l *Loader) Batches(n int) int {
	return (n + l.batchSize - 1) / l.batchSize
}

// Load inserts records into table in order and returns the number of rows
// committed.
func Load[R model.Record](ctx context.Context, l *Loader, table model.Table, records []R) (int64, error) {
	batches := l.Batches(len(records))
	var committed int64

	for b := range batches {
		start := b * l.batchSize
		end := min(start+l.batchSize, len(records))

		rows := make([][]any, 0, end-start)
		for _, r := range records[start:end] {
			rows = append(rows, r.Values())
		}

		n, err := l.commitBatch(ctx, table, rows)
		if err != nil {
			return committed, &BatchCommitError{
				Table:     table.Name,
				Batch:     b + 1,
				Batches:   batches,
				Committed: committed,
				Err:       err,
			}
		}
		committed += n

		if l.progress != nil {
			l.progress(table.Name, committed, len(records))
		}
	}
	return committed, nil
}

func (l *Loader) commitBatch(ctx context.Context, table model.Table, rows [][]any) (int64, error) {
	var inserted int64
	err := l.pool.With(ctx, func(conn common.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		n, err := tx.InsertRows(ctx, table.Name, table.Columns, rows)
		if err != nil {
			tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		inserted = n
		return nil
	})
	return inserted, err
}
