package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a write targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// Entity kinds.
const (
	KindPerson  = "person"
	KindVehicle = "vehicle"
)

// Entity represents a recognised recurring subject.
type Entity struct {
	ID            string
	Kind          string
	Name          string
	Notes         string
	FirstSeen     *time.Time
	LastSeen      *time.Time
	SightingCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Tags          []Tag
}

// Tag represents a tag row.
type Tag struct {
	ID   string
	Name string
}

// Sighting is one observation of an entity.
type Sighting struct {
	ID       string
	EntityID string
	SeenAt   time.Time
	Camera   string
}

// ValidKind reports whether kind is a known entity kind.
func ValidKind(kind string) bool {
	return kind == KindPerson || kind == KindVehicle
}
