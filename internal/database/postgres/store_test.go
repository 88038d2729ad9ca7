package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUndefinedTable(t *testing.T) {
	c := qt.New(t)
	missing := fmt.Errorf("truncate: %w", &pgconn.PgError{Code: "42P01", Message: `relation "daily_summary" does not exist`})
	c.Assert(IsUndefinedTable(missing), qt.IsTrue)
	c.Assert(IsUndefinedTable(&pgconn.PgError{Code: "23503"}), qt.IsFalse)
	c.Assert(IsUndefinedTable(errors.New("relation does not exist")), qt.IsFalse)
}

func TestNotConnected(t *testing.T) {
	c := qt.New(t)
	s := New()
	_, err := s.NewConn(context.Background())
	c.Assert(err, qt.ErrorMatches, "postgres store is not connected")

	err = s.Connect(context.Background(), "postgres://user@localhost:notaport/db")
	c.Assert(err, qt.ErrorMatches, "failed to parse connection URL: .*")
}
