package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/watchlist/internal/database/repository"
)

// DefaultTags are the labels every catalogue starts with.
var DefaultTags = []string{"resident", "visitor", "delivery", "unknown"}

// TagID derives the stable id for a tag name.
func TagID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("tag:"+name)).String()
}

// SeedDefaults ensures baseline tags exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	tagRepo := repository.NewTagRepo(db)
	existing, err := tagRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for _, name := range DefaultTags {
		if err := tagRepo.Upsert(ctx, repository.Tag{ID: TagID(name), Name: name}); err != nil {
			return err
		}
	}
	return nil
}
