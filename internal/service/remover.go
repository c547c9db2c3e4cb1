package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jask/watchlist/internal/database/repository"
)

// Remover performs the deletion behind the delete confirmation.
type Remover struct {
	Entities *repository.EntityRepo
}

// Delete removes the entity with id along with its tags and sightings.
func (r *Remover) Delete(ctx context.Context, id string) error {
	if r.Entities == nil {
		return fmt.Errorf("remover: entity repo not configured")
	}
	if id == "" {
		return fmt.Errorf("remove entity: empty id")
	}
	if err := r.Entities.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("remove entity %s: %w", id, err)
		}
		return fmt.Errorf("remove entity: %w", err)
	}
	return nil
}
