// Package savedviews persists named, shareable dashboard views. A saved
// view is a page name plus the default-elided query string the view-state
// layer produced, addressed by an opaque token.
package savedviews

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SavedView is one persisted shareable view.
type SavedView struct {
	ID          int64      `json:"id"`
	Token       string     `json:"token"`
	Name        string     `json:"name"`
	Page        string     `json:"page"`
	QueryString string     `json:"query_string"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Store manages saved views in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Pages a saved view may point at. Unknown pages are rejected at save time
// so stale links never dangle into removed routes.
var knownPages = map[string]struct{}{
	"chip":        {},
	"execution":   {},
	"analysis":    {},
	"correlation": {},
	"cdf":         {},
	"histogram":   {},
	"timeseries":  {},
	"metrics":     {},
	"provenance":  {},
}

func NewSQLiteStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS saved_views (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  token TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  page TEXT NOT NULL,
  query_string TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(name, page)
);
`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_sv_page ON saved_views(page);`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing SQLite file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Save upserts a view by (name, page) and returns it. The token is minted
// once and survives later saves under the same name.
func (s *Store) Save(ctx context.Context, name, page, queryString string) (*SavedView, error) {
	name = strings.TrimSpace(name)
	page = strings.ToLower(strings.TrimSpace(page))
	queryString = strings.TrimPrefix(strings.TrimSpace(queryString), "?")
	if name == "" {
		return nil, errors.New("view name is required")
	}
	if _, ok := knownPages[page]; !ok {
		return nil, errors.New("unknown page: " + page)
	}

	token := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO saved_views (token, name, page, query_string, created_at, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(name, page) DO UPDATE SET
  query_string = excluded.query_string,
  updated_at = CURRENT_TIMESTAMP;
`, token, name, page, queryString); err != nil {
		return nil, err
	}

	return s.getBy(ctx, `name = ? AND page = ?`, name, page)
}

// List returns saved views, most recently updated first.
func (s *Store) List(ctx context.Context, limit int) ([]SavedView, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, token, name, page, query_string, created_at, updated_at
FROM saved_views
ORDER BY updated_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedView, 0, limit)
	for rows.Next() {
		item, err := scanSavedView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByToken returns one saved view by its share token.
func (s *Store) GetByToken(ctx context.Context, token string) (*SavedView, error) {
	return s.getBy(ctx, `token = ?`, strings.TrimSpace(token))
}

// DeleteByToken removes one saved view, reporting how many rows matched.
func (s *Store) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_views WHERE token = ?`, strings.TrimSpace(token))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats is a cheap health probe used by the status endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]any, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_views`).Scan(&count); err != nil {
		return nil, err
	}
	return map[string]any{"saved_views": count}, nil
}

func (s *Store) getBy(ctx context.Context, where string, args ...any) (*SavedView, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, token, name, page, query_string, created_at, updated_at
FROM saved_views
WHERE `+where+`;`, args...)
	return scanSavedView(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedView(row rowScanner) (*SavedView, error) {
	var (
		item      SavedView
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	if err := row.Scan(&item.ID, &item.Token, &item.Name, &item.Page, &item.QueryString, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		item.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		item.UpdatedAt = &t
	}
	return &item, nil
}
