// Package memory is an in-process store. It backs dry runs and tests: rows
// are kept per table, transactions stage rows until commit, and failures can
// be injected on a chosen insert batch.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rana718/bulkgen/internal/database/common"
)

var ErrNoSuchTable = errors.New("no such table")

type Store struct {
	mu        sync.Mutex
	tables    map[string][][]any
	columns   map[string][]string
	inserts   map[string]int
	failures  map[string]failure
	truncated []string
	open      int
	peak      int
	opened    int
}

type failure struct {
	batch int
	err   error
}

// New creates a store that knows the given tables. Inserting into or
// truncating any other table fails with ErrNoSuchTable.
func New(tables ...string) *Store {
	s := &Store{
		tables:   make(map[string][][]any),
		columns:  make(map[string][]string),
		inserts:  make(map[string]int),
		failures: make(map[string]failure),
	}
	for _, t := range tables {
		s.tables[t] = nil
	}
	return s
}

// FailOn makes the batch-th insert statement into table fail with err.
// Batches are counted from 1.
func (s *Store) FailOn(table string, batch int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[table] = failure{batch: batch, err: err}
}

func (s *Store) Connect(context.Context, string) error {
	return nil
}

func (s *Store) NewConn(context.Context) (common.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open++
	s.opened++
	s.peak = max(s.peak, s.open)
	return &Conn{store: s}, nil
}

func (s *Store) Close() error {
	return nil
}

// Rows returns the committed rows of table.
func (s *Store) Rows(table string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.tables[table]))
	copy(out, s.tables[table])
	return out
}

func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// Columns returns the column list rows of table were last inserted with.
func (s *Store) Columns(table string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns[table]
}

// Truncated lists truncated tables in call order.
func (s *Store) Truncated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.truncated...)
}

// ConnStats reports currently open connections, the most ever open at once,
// and the total opened.
func (s *Store) ConnStats() (open, peak, opened int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open, s.peak, s.opened
}

type Conn struct {
	store  *Store
	closed bool
}

func (c *Conn) Begin(context.Context) (common.Tx, error) {
	if c.closed {
		return nil, errors.New("connection is closed")
	}
	return &Tx{store: c.store, staged: make(map[string][][]any)}, nil
}

func (c *Conn) Truncate(_ context.Context, table string) common.TruncateResult {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truncated = append(s.truncated, table)

	if _, ok := s.tables[table]; !ok {
		return common.TruncateResult{Table: table, Status: common.NotFound, Err: fmt.Errorf("%w: %s", ErrNoSuchTable, table)}
	}
	s.tables[table] = nil
	return common.TruncateResult{Table: table, Status: common.Truncated}
}

func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.store.mu.Lock()
	c.store.open--
	c.store.mu.Unlock()
	return nil
}

type Tx struct {
	store  *Store
	staged map[string][][]any
	cols   map[string][]string
	done   bool
}

func (t *Tx) InsertRows(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if t.done {
		return 0, errors.New("transaction already finished")
	}
	if !common.ValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("row %d of %s has %d values, want %d", i, table, len(row), len(columns))
		}
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchTable, table)
	}
	s.inserts[table]++
	if f, ok := s.failures[table]; ok && f.batch == s.inserts[table] {
		return 0, f.err
	}

	if t.cols == nil {
		t.cols = make(map[string][]string)
	}
	t.cols[table] = columns
	t.staged[table] = append(t.staged[table], rows...)
	return int64(len(rows)), nil
}

func (t *Tx) Commit(context.Context) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for table, rows := range t.staged {
		s.tables[table] = append(s.tables[table], rows...)
		s.columns[table] = t.cols[table]
	}
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.staged = nil
	return nil
}
