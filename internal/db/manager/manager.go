package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const queryTableExists = "SELECT to_regclass($1) IS NOT NULL"

// Manager implements pgetl.SchemaManager. It is stateless.
type Manager struct{}

func New() pgetl.SchemaManager {
	return &Manager{}
}

func (m *Manager) Tables() []string {
	names := make([]string, len(tableDefs))
	for i, t := range tableDefs {
		names[i] = t.name
	}
	return names
}

// Exists reports whether all tables are present in the search path.
func (m *Manager) Exists(ctx context.Context, conn pgetl.DBConnection) (bool, error) {
	for _, t := range tableDefs {
		var exists bool
		if err := conn.QueryRow(ctx, queryTableExists, pgx.Identifier{t.name}.Sanitize()).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check table %q: %w", t.name, err)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

func (m *Manager) Create(ctx context.Context, conn pgetl.DBConnection) error {
	for _, t := range tableDefs {
		query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s\n)", pgx.Identifier{t.name}.Sanitize(), t.columns)
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create table %q: %w", t.name, err)
		}
	}
	return nil
}

// Drop drops the tables in reverse creation order.
func (m *Manager) Drop(ctx context.Context, conn pgetl.DBConnection) error {
	for i := len(tableDefs) - 1; i >= 0; i-- {
		name := tableDefs[i].name
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{name}.Sanitize())
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to drop table %q: %w", name, err)
		}
	}
	return nil
}

var _ pgetl.SchemaManager = (*Manager)(nil)
