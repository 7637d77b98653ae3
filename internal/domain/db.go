package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation owns its own migration files and strategy, so the
// whole persistence backend stays swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
