package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jask/watchlist/internal/database/repository"
)

// Importer loads entity catalogues from YAML documents.
type Importer struct {
	Entities *repository.EntityRepo
	Tags     *repository.TagRepo
}

// ImportResult summarises an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// importRecord is one YAML list item:
//
//	- kind: vehicle
//	  name: ABC-123 blue hatchback
//	  notes: parks across the driveway
//	  tags: [visitor]
//	  seen: [2026-02-01T08:15:00Z]
type importRecord struct {
	Kind  string      `yaml:"kind"`
	Name  string      `yaml:"name"`
	Notes string      `yaml:"notes"`
	Tags  []string    `yaml:"tags"`
	Seen  []time.Time `yaml:"seen"`
}

// EntityID derives the stable id for a kind and name so re-imports collide.
func EntityID(kind, name string) string {
	key := strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("entity:"+key)).String()
}

// ImportYAML reads a YAML sequence of entities. Bad records are reported in
// the result and do not stop the run; only an unreadable document is an error.
func (s *Importer) ImportYAML(ctx context.Context, r io.Reader) (ImportResult, error) {
	if s.Entities == nil || s.Tags == nil {
		return ImportResult{}, fmt.Errorf("importer: repos not configured")
	}
	var records []importRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return ImportResult{}, nil
		}
		return ImportResult{}, fmt.Errorf("decode yaml: %w", err)
	}

	res := ImportResult{}
	for i, rec := range records {
		item := i + 1
		kind := strings.ToLower(strings.TrimSpace(rec.Kind))
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("item %d: missing name", item))
			continue
		}
		if !repository.ValidKind(kind) {
			res.Errors = append(res.Errors, fmt.Errorf("item %d: unknown kind %q", item, rec.Kind))
			continue
		}
		id := EntityID(kind, name)
		exists, err := s.Entities.Exists(ctx, id)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("item %d lookup: %w", item, err))
			continue
		}
		if exists {
			res.Skipped++
			continue
		}
		e := repository.Entity{ID: id, Kind: kind, Name: name, Notes: strings.TrimSpace(rec.Notes)}
		if err := s.Entities.Upsert(ctx, e); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("item %d insert: %w", item, err))
			continue
		}
		if err := s.attachTags(ctx, id, rec.Tags); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("item %d tags: %w", item, err))
		}
		for _, at := range rec.Seen {
			if err := s.Entities.RecordSighting(ctx, repository.Sighting{EntityID: id, SeenAt: at, Camera: "import"}); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("item %d sighting: %w", item, err))
			}
		}
		res.Imported++
	}
	return res, nil
}

func (s *Importer) attachTags(ctx context.Context, entityID string, names []string) error {
	for _, name := range names {
		if repository.NormalizeTag(name) == "" {
			continue
		}
		tag, err := s.Tags.Ensure(ctx, name)
		if err != nil {
			return err
		}
		if err := s.Entities.AttachTag(ctx, entityID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}
