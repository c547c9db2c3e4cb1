package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jask/watchlist/internal/database/repository"
)

// Recorder logs sightings against known entities.
type Recorder struct {
	Entities *repository.EntityRepo
}

// Record stores a sighting of entityID at the given time. A zero time means now.
func (r *Recorder) Record(ctx context.Context, entityID, camera string, at time.Time) error {
	if r.Entities == nil {
		return fmt.Errorf("recorder: entity repo not configured")
	}
	if at.IsZero() {
		at = time.Now()
	}
	s := repository.Sighting{EntityID: entityID, Camera: strings.TrimSpace(camera), SeenAt: at}
	if err := r.Entities.RecordSighting(ctx, s); err != nil {
		return fmt.Errorf("record sighting for %s: %w", entityID, err)
	}
	return nil
}
