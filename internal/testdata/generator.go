package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/watchlist/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Entities *repository.EntityRepo
	Tags     *repository.TagRepo
}

type sample struct {
	kind  string
	name  string
	notes string
	tags  []string
}

var samples = []sample{
	{repository.KindPerson, "Postal courier", "Weekday mornings, **red** satchel.", []string{"delivery"}},
	{repository.KindPerson, "Neighbour at 14", "Walks a grey whippet around 7pm.", []string{"resident"}},
	{repository.KindPerson, "Meter reader", "", []string{"visitor"}},
	{repository.KindVehicle, "White van KX-512", "Parcel runs; usually idles *under two minutes*.", []string{"delivery"}},
	{repository.KindVehicle, "Blue hatchback 1AB-2CD", "Household car.", []string{"resident"}},
	{repository.KindVehicle, "Silver sedan", "Plate unreadable at night.", []string{"unknown"}},
}

var cameras = []string{"driveway", "front-door", "street"}

// Seed creates sample entities with sightings. rng may be nil.
func Seed(ctx context.Context, repos Repos, rng *rand.Rand) ([]repository.Entity, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := time.Now().UTC()
	out := make([]repository.Entity, 0, len(samples))
	for _, s := range samples {
		e := repository.Entity{ID: uuid.NewString(), Kind: s.kind, Name: s.name, Notes: s.notes}
		if err := repos.Entities.Upsert(ctx, e); err != nil {
			return nil, err
		}
		for _, name := range s.tags {
			tag, err := repos.Tags.Ensure(ctx, name)
			if err != nil {
				return nil, err
			}
			if err := repos.Entities.AttachTag(ctx, e.ID, tag.ID); err != nil {
				return nil, err
			}
		}
		for i := 0; i < rng.Intn(4)+1; i++ {
			seen := now.Add(-time.Duration(rng.Intn(72*60)) * time.Minute)
			sighting := repository.Sighting{EntityID: e.ID, SeenAt: seen, Camera: cameras[rng.Intn(len(cameras))]}
			if err := repos.Entities.RecordSighting(ctx, sighting); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}
