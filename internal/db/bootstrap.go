package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Bootstrap applies the embedded schema. Statements are idempotent
// (CREATE ... IF NOT EXISTS) so this runs on every start.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
