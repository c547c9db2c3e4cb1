package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityFilters defines list filters.
type EntityFilters struct {
	Kind   string
	Tag    string
	Search string    // substring match on name
	Since  time.Time // last_seen on or after; zero = no filter
	Limit  int
}

// EntityRepo handles entities and their sightings.
type EntityRepo struct {
	db *sql.DB
}

func NewEntityRepo(db *sql.DB) *EntityRepo { return &EntityRepo{db: db} }

const entityColumns = "id, kind, name, notes, first_seen, last_seen, sighting_count, created_at, updated_at"

func (r *EntityRepo) Upsert(ctx context.Context, e Entity) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO entities(id, kind, name, notes, first_seen, last_seen, sighting_count, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 kind=excluded.kind,
	 name=excluded.name,
	 notes=excluded.notes,
	 updated_at=CURRENT_TIMESTAMP;
	`, e.ID, e.Kind, e.Name, e.Notes, e.FirstSeen, e.LastSeen, e.SightingCount)
	return err
}

// Exists reports whether an entity with id is stored.
func (r *EntityRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the entity; tags and sightings cascade. Returns ErrNotFound
// when no row matched.
func (r *EntityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EntityRepo) AttachTag(ctx context.Context, entityID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO entity_tags(entity_id, tag_id) VALUES(?, ?)`, entityID, tagID)
	return err
}

func (r *EntityRepo) RemoveTag(ctx context.Context, entityID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entity_tags WHERE entity_id = ? AND tag_id = ?`, entityID, tagID)
	return err
}

// RecordSighting stores a sighting and bumps the entity's counters.
func (r *EntityRepo) RecordSighting(ctx context.Context, s Sighting) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	// Stored as text; second precision in UTC keeps comparisons lexical.
	s.SeenAt = s.SeenAt.UTC().Truncate(time.Second)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
	UPDATE entities SET
	 sighting_count = sighting_count + 1,
	 first_seen = CASE WHEN first_seen IS NULL OR first_seen > ? THEN ? ELSE first_seen END,
	 last_seen = CASE WHEN last_seen IS NULL OR last_seen < ? THEN ? ELSE last_seen END,
	 updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, s.SeenAt, s.SeenAt, s.SeenAt, s.SeenAt, s.EntityID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sightings(id, entity_id, seen_at, camera) VALUES (?, ?, ?, ?)`,
		s.ID, s.EntityID, s.SeenAt, s.Camera); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RecentSightings returns up to limit sightings, newest first.
func (r *EntityRepo) RecentSightings(ctx context.Context, entityID string, limit int) ([]Sighting, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, entity_id, seen_at, camera FROM sightings WHERE entity_id = ? ORDER BY seen_at DESC LIMIT ?`, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Sighting
	for rows.Next() {
		var s Sighting
		if err := rows.Scan(&s.ID, &s.EntityID, &s.SeenAt, &s.Camera); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *EntityRepo) List(ctx context.Context, f EntityFilters) ([]Entity, error) {
	var where []string
	var args []interface{}

	if f.Kind != "" {
		where = append(where, "e.kind = ?")
		args = append(args, f.Kind)
	}
	if f.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM entity_tags et JOIN tags t ON t.id = et.tag_id WHERE et.entity_id = e.id AND t.name = ?)")
		args = append(args, NormalizeTag(f.Tag))
	}
	if f.Search != "" {
		where = append(where, "e.name LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	if !f.Since.IsZero() {
		where = append(where, "e.last_seen >= ?")
		args = append(args, f.Since.UTC().Truncate(time.Second))
	}

	query := "SELECT " + prefixed("e.", entityColumns) + " FROM entities e"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.last_seen IS NULL, e.last_seen DESC, e.name"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tags, err := r.fetchTags(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tags = tags
	}
	return out, nil
}

// Get returns nil, nil when the entity does not exist.
func (r *EntityRepo) Get(ctx context.Context, id string) (*Entity, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+entityColumns+" FROM entities WHERE id = ?", id)
	e, err := scanEntity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	tags, err := r.fetchTags(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Tags = tags
	return &e, nil
}

func (r *EntityRepo) fetchTags(ctx context.Context, entityID string) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT t.id, t.name FROM tags t JOIN entity_tags et ON et.tag_id = t.id WHERE et.entity_id = ? ORDER BY t.name`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntity(row scanner) (Entity, error) {
	var e Entity
	var first, last sql.NullTime
	if err := row.Scan(&e.ID, &e.Kind, &e.Name, &e.Notes, &first, &last, &e.SightingCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entity{}, err
	}
	if first.Valid {
		t := first.Time
		e.FirstSeen = &t
	}
	if last.Valid {
		t := last.Time
		e.LastSeen = &t
	}
	return e, nil
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i := range parts {
		parts[i] = prefix + parts[i]
	}
	return strings.Join(parts, ", ")
}
