package service

import (
	"context"
	"database/sql"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/watchlist/internal/database"
	"github.com/jask/watchlist/internal/database/repository"
	"github.com/jask/watchlist/internal/testdata"
)

type fixture struct {
	ctx      context.Context
	db       *sql.DB
	entities *repository.EntityRepo
	tags     *repository.TagRepo
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return fixture{ctx: ctx, db: db, entities: repository.NewEntityRepo(db), tags: repository.NewTagRepo(db)}
}

func (f fixture) add(t *testing.T, id, kind, name string) {
	t.Helper()
	require.NoError(t, f.entities.Upsert(f.ctx, repository.Entity{ID: id, Kind: kind, Name: name}))
}

func names(list []repository.Entity) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

func TestCatalogSearchRanksSubstringBeforeTypos(t *testing.T) {
	t.Parallel()
	f := setup(t)
	f.add(t, "1", repository.KindPerson, "Jonathan Parker")
	f.add(t, "2", repository.KindPerson, "Parcel courier")
	f.add(t, "3", repository.KindVehicle, "Blue hatchback")
	f.add(t, "4", repository.KindPerson, "Parkes family")

	c := &Catalog{Entities: f.entities}

	got, err := c.List(f.ctx, Query{Search: "parker"})
	require.NoError(t, err)
	require.Equal(t, []string{"Jonathan Parker", "Parkes family"}, names(got))

	got, err = c.List(f.ctx, Query{Search: "hatchbak"})
	require.NoError(t, err)
	require.Equal(t, []string{"Blue hatchback"}, names(got))

	got, err = c.List(f.ctx, Query{Search: "zzz"})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = c.List(f.ctx, Query{Kind: repository.KindVehicle})
	require.NoError(t, err)
	require.Equal(t, []string{"Blue hatchback"}, names(got))
}

func TestSearchTolerance(t *testing.T) {
	require.Equal(t, 0, searchTolerance("van"))
	require.Equal(t, 1, searchTolerance("sedan"))
	require.Equal(t, 2, searchTolerance("hatchback"))
}

func TestRemover(t *testing.T) {
	t.Parallel()
	f := setup(t)
	f.add(t, "p1", repository.KindPerson, "Meter reader")
	r := &Remover{Entities: f.entities}

	require.NoError(t, r.Delete(f.ctx, "p1"))
	err := r.Delete(f.ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Contains(t, err.Error(), "p1")
	require.Error(t, r.Delete(f.ctx, ""))
}

func TestRecorder(t *testing.T) {
	t.Parallel()
	f := setup(t)
	f.add(t, "v1", repository.KindVehicle, "White van")
	r := &Recorder{Entities: f.entities}

	at := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, r.Record(f.ctx, "v1", " driveway ", at))
	require.NoError(t, r.Record(f.ctx, "v1", "street", time.Time{}))

	got, err := f.entities.Get(f.ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, 2, got.SightingCount)
	require.True(t, got.FirstSeen.Equal(at))

	require.ErrorIs(t, r.Record(f.ctx, "ghost", "", at), repository.ErrNotFound)
}

func TestImportYAML(t *testing.T) {
	t.Parallel()
	f := setup(t)
	imp := &Importer{Entities: f.entities, Tags: f.tags}

	doc := `
- kind: vehicle
  name: White van KX-512
  notes: parcel runs
  tags: [delivery, Visitor]
  seen: [2026-02-01T08:15:00Z, 2026-02-02T09:00:00Z]
- kind: person
  name: Postal courier
- kind: bicycle
  name: Red bike
- kind: person
  name: ""
`
	res, err := imp.ImportYAML(f.ctx, strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 2)

	van, err := f.entities.Get(f.ctx, EntityID("vehicle", "White van KX-512"))
	require.NoError(t, err)
	require.NotNil(t, van)
	require.Equal(t, 2, van.SightingCount)
	require.Len(t, van.Tags, 2)
	require.Equal(t, "delivery", van.Tags[0].Name)
	require.Equal(t, "visitor", van.Tags[1].Name)

	again, err := imp.ImportYAML(f.ctx, strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 0, again.Imported)
	require.Equal(t, 2, again.Skipped)

	_, err = imp.ImportYAML(f.ctx, strings.NewReader("kind: [unterminated"))
	require.Error(t, err)

	empty, err := imp.ImportYAML(f.ctx, strings.NewReader(""))
	require.NoError(t, err)
	require.Zero(t, empty.Imported)
}

func TestEntityIDIsCaseInsensitive(t *testing.T) {
	require.Equal(t, EntityID("Person", " Neighbour "), EntityID("person", "neighbour"))
	require.NotEqual(t, EntityID("person", "x"), EntityID("vehicle", "x"))
}

func TestResetAfterSeed(t *testing.T) {
	t.Parallel()
	f := setup(t)
	seeded, err := testdata.Seed(f.ctx, testdata.Repos{Entities: f.entities, Tags: f.tags}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NotEmpty(t, seeded)

	all, err := (&Catalog{Entities: f.entities}).List(f.ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, len(seeded))
	for _, e := range all {
		require.Positive(t, e.SightingCount)
		require.NotEmpty(t, e.Tags)
	}

	m := &MaintenanceService{DB: f.db}
	removed, err := m.Reset(f.ctx)
	require.NoError(t, err)
	require.EqualValues(t, len(seeded), removed)

	all, err = (&Catalog{Entities: f.entities}).List(f.ctx, Query{})
	require.NoError(t, err)
	require.Empty(t, all)
	tags, err := f.tags.List(f.ctx)
	require.NoError(t, err)
	require.Empty(t, tags)
}
