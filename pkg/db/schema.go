package db

import "context"

// SchemaManager creates and updates the tables used by the queue and
// the catalog.
type SchemaManager interface {
	// Create builds all tables and indexes on an empty database.
	Create(ctx context.Context) error

	// Migrate brings existing tables to the current model definitions.
	Migrate(ctx context.Context) error
}

// Optimizer keeps status and catalog tables compact after many
// cycles.
type Optimizer interface {
	// Optimize reclaims space of dead rows and refreshes planner
	// statistics of the tables. It never deletes rows.
	Optimize(ctx context.Context) error
}
