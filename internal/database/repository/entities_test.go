package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/watchlist/internal/database"
	"github.com/jask/watchlist/internal/database/repository"
)

func setupRepos(t *testing.T) (*repository.EntityRepo, *repository.TagRepo, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewEntityRepo(db), repository.NewTagRepo(db), ctx
}

func TestEntityUpsertGetList(t *testing.T) {
	t.Parallel()
	entities, _, ctx := setupRepos(t)

	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "p1", Kind: repository.KindPerson, Name: "Postal courier"}))
	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "v1", Kind: repository.KindVehicle, Name: "White van"}))
	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "p1", Kind: repository.KindPerson, Name: "Courier", Notes: "renamed"}))

	got, err := entities.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Courier", got.Name)
	require.Equal(t, "renamed", got.Notes)
	require.Nil(t, got.LastSeen)

	missing, err := entities.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	people, err := entities.List(ctx, repository.EntityFilters{Kind: repository.KindPerson})
	require.NoError(t, err)
	require.Len(t, people, 1)

	vans, err := entities.List(ctx, repository.EntityFilters{Search: "van"})
	require.NoError(t, err)
	require.Len(t, vans, 1)
	require.Equal(t, "v1", vans[0].ID)
}

func TestRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	entities, _, ctx := setupRepos(t)
	err := entities.Upsert(ctx, repository.Entity{ID: "x", Kind: "bicycle", Name: "Bike"})
	require.Error(t, err)
}

func TestSightingsUpdateCounters(t *testing.T) {
	t.Parallel()
	entities, _, ctx := setupRepos(t)
	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "p1", Kind: repository.KindPerson, Name: "Neighbour"}))

	early := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(3 * time.Hour)
	require.NoError(t, entities.RecordSighting(ctx, repository.Sighting{EntityID: "p1", SeenAt: late, Camera: "street"}))
	require.NoError(t, entities.RecordSighting(ctx, repository.Sighting{EntityID: "p1", SeenAt: early, Camera: "driveway"}))

	got, err := entities.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, got.SightingCount)
	require.True(t, got.FirstSeen.Equal(early), "first seen %v", got.FirstSeen)
	require.True(t, got.LastSeen.Equal(late), "last seen %v", got.LastSeen)

	recent, err := entities.RecentSightings(ctx, "p1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "street", recent[0].Camera)

	err = entities.RecordSighting(ctx, repository.Sighting{EntityID: "ghost", SeenAt: early})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	t.Parallel()
	entities, tags, ctx := setupRepos(t)
	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "v1", Kind: repository.KindVehicle, Name: "Silver sedan"}))
	tag, err := tags.Ensure(ctx, " Unknown ")
	require.NoError(t, err)
	require.Equal(t, "unknown", tag.Name)
	require.NoError(t, entities.AttachTag(ctx, "v1", tag.ID))
	require.NoError(t, entities.RecordSighting(ctx, repository.Sighting{EntityID: "v1", SeenAt: time.Now()}))

	tagged, err := entities.List(ctx, repository.EntityFilters{Tag: "UNKNOWN"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	require.Len(t, tagged[0].Tags, 1)

	require.NoError(t, entities.Delete(ctx, "v1"))
	require.ErrorIs(t, entities.Delete(ctx, "v1"), repository.ErrNotFound)

	recent, err := entities.RecentSightings(ctx, "v1", 5)
	require.NoError(t, err)
	require.Empty(t, recent)

	// The tag itself survives; only the link goes.
	again, err := tags.Ensure(ctx, "unknown")
	require.NoError(t, err)
	require.Equal(t, tag.ID, again.ID)
}

func TestTagRemoval(t *testing.T) {
	t.Parallel()
	entities, tags, ctx := setupRepos(t)
	require.NoError(t, entities.Upsert(ctx, repository.Entity{ID: "p1", Kind: repository.KindPerson, Name: "Meter reader"}))
	tag, err := tags.Ensure(ctx, "visitor")
	require.NoError(t, err)
	require.NoError(t, entities.AttachTag(ctx, "p1", tag.ID))
	require.NoError(t, entities.AttachTag(ctx, "p1", tag.ID))

	got, err := entities.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)

	require.NoError(t, entities.RemoveTag(ctx, "p1", tag.ID))
	got, err = entities.Get(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, got.Tags)
}
