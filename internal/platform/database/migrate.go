package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// Migrate applies every embedded *.sql file against the pool in lexical
// order. Migrations must be idempotent (IF NOT EXISTS) since no version
// table is kept for this schema.
func (p *Pool) Migrate(ctx context.Context, migrations fs.FS) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("database not configured")
	}

	entries, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		stmt, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := p.db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
