package pgetl

import "context"

// SchemaManager creates and drops the analytics tables.
// Implementations are NOT safe for concurrent use.
type SchemaManager interface {
	// Exists reports whether every analytics table is present.
	Exists(ctx context.Context, conn DBConnection) (bool, error)

	// Create creates any analytics table that does not exist yet.
	Create(ctx context.Context, conn DBConnection) error

	// Drop drops all analytics tables, ignoring the ones that do not exist.
	Drop(ctx context.Context, conn DBConnection) error

	// Tables returns the managed table names in creation order.
	Tables() []string
}
