package database

import (
	"context"
	"fmt"

	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/database/memory"
	"github.com/Rana718/bulkgen/internal/database/mysql"
	"github.com/Rana718/bulkgen/internal/database/postgres"
	"github.com/Rana718/bulkgen/internal/database/sqlite"
	"github.com/Rana718/bulkgen/internal/model"
)

// Store hands out dedicated connections to one target database.
type Store interface {
	Connect(ctx context.Context, url string) error
	NewConn(ctx context.Context) (common.Conn, error)
	Close() error
}

func NewStore(provider string) (Store, error) {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// NewMemoryStore returns an in-process store that knows every generated table.
func NewMemoryStore() *memory.Store {
	tables := model.Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return memory.New(names...)
}
