package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/watchlist/internal/database/repository"
)

// Query narrows a catalogue listing.
type Query struct {
	Kind   string // "" for all kinds
	Tag    string
	Search string
}

// Catalog serves entity listings to the list surface and the CLI.
type Catalog struct {
	Entities *repository.EntityRepo
}

// List returns entities matching q. A search term keeps substring matches
// first, then names within a small edit distance, closest first.
func (c *Catalog) List(ctx context.Context, q Query) ([]repository.Entity, error) {
	if c.Entities == nil {
		return nil, fmt.Errorf("catalog: entity repo not configured")
	}
	all, err := c.Entities.List(ctx, repository.EntityFilters{Kind: q.Kind, Tag: q.Tag})
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return all, nil
	}
	return rankByName(all, term), nil
}

// Get loads a single entity with its tags.
func (c *Catalog) Get(ctx context.Context, id string) (*repository.Entity, error) {
	if c.Entities == nil {
		return nil, fmt.Errorf("catalog: entity repo not configured")
	}
	return c.Entities.Get(ctx, id)
}

type ranked struct {
	entity repository.Entity
	exact  bool
	dist   int
	order  int
}

func rankByName(entities []repository.Entity, term string) []repository.Entity {
	tolerance := searchTolerance(term)
	var hits []ranked
	for i, e := range entities {
		name := strings.ToLower(e.Name)
		if strings.Contains(name, term) {
			hits = append(hits, ranked{entity: e, exact: true, order: i})
			continue
		}
		if d := bestDistance(name, term); d <= tolerance {
			hits = append(hits, ranked{entity: e, dist: d, order: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].exact != hits[j].exact {
			return hits[i].exact
		}
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].order < hits[j].order
	})
	out := make([]repository.Entity, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.entity)
	}
	return out
}

// bestDistance compares term against the whole name and each word in it so a
// typo in a surname still matches "first last".
func bestDistance(name, term string) int {
	best := levenshtein.ComputeDistance(name, term)
	for _, word := range strings.Fields(name) {
		if d := levenshtein.ComputeDistance(word, term); d < best {
			best = d
		}
	}
	return best
}

func searchTolerance(term string) int {
	switch n := len([]rune(term)); {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}
