package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/watchlist/internal/database"
)

// resetOrder lists catalogue tables children first.
var resetOrder = []string{"sightings", "entity_tags", "entities", "tags"}

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes the catalogue and reports how many entities it removed. The
// schema and its migration version are left alone.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, table := range resetOrder {
			res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
			if table == "entities" {
				removed, _ = res.RowsAffected()
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	// Reclaim space; a failure here leaves a correct but larger file.
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return removed, nil
}
