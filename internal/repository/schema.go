package repository

import (
	"context"
	"fmt"
)

// Migrate creates the catalog schema when it does not exist yet.
func Migrate(ctx context.Context, db Database) error {
	if _, err := db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
