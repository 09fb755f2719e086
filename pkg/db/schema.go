package db

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/pkg/errors"
)

//go:embed schema.sql
var schemaDDL string

// EnsureSchema creates the coupons table and its indexes if they don't exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.Wrap(err, "ensure schema")
	}
	return nil
}
