package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// TagRepo handles entity labels.
type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{db: db} }

// NormalizeTag lowercases and trims a label.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *TagRepo) Upsert(ctx context.Context, t Tag) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tags(id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, t.ID, NormalizeTag(t.Name))
	return err
}

// ByName returns nil, nil when no tag carries name.
func (r *TagRepo) ByName(ctx context.Context, name string) (*Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = ?`, NormalizeTag(name))
	var t Tag
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Ensure returns the tag called name, creating it when missing.
func (r *TagRepo) Ensure(ctx context.Context, name string) (Tag, error) {
	existing, err := r.ByName(ctx, name)
	if err != nil {
		return Tag{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	t := Tag{ID: uuid.NewString(), Name: NormalizeTag(name)}
	if err := r.Upsert(ctx, t); err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (r *TagRepo) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
