// Package store is the local sqlite database: a settings key-value table
// holding the integration credentials and a cache of pages already synced to
// Notion.
package store

import (
	"database/sql"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Settings keys.
const (
	KeyBotID      = "botId"
	KeyDatabaseID = "databaseId"
)

// Clip is one locally cached record of a page synced to Notion.
type Clip struct {
	PageID  string    `json:"page_id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	SavedAt time.Time `json:"saved_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "notionclip.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE TABLE IF NOT EXISTS clips (
		page_id TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		title TEXT,
		saved_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_clips_page_id ON clips(page_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Setting returns the stored value for key, or "" when unset.
func (s *Store) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// RecordClip remembers that url now resolves to a Notion page, replacing any
// previous record for the same URL.
func (s *Store) RecordClip(c *Clip) error {
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}
	_, err := s.db.Exec(`
	INSERT INTO clips (page_id, url, title, saved_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		page_id = excluded.page_id,
		title = excluded.title,
		saved_at = excluded.saved_at
	`, c.PageID, c.URL, c.Title, c.SavedAt)
	return err
}

// ClipByURL returns the cached clip for an exact URL, or sql.ErrNoRows.
func (s *Store) ClipByURL(url string) (*Clip, error) {
	var c Clip
	err := s.db.QueryRow(
		`SELECT page_id, url, title, saved_at FROM clips WHERE url = ?`, url,
	).Scan(&c.PageID, &c.URL, &c.Title, &c.SavedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Clips(limit int) ([]Clip, error) {
	rows, err := s.db.Query(
		`SELECT page_id, url, title, saved_at FROM clips ORDER BY saved_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		var c Clip
		if err := rows.Scan(&c.PageID, &c.URL, &c.Title, &c.SavedAt); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (s *Store) DeleteClip(url string) error {
	_, err := s.db.Exec(`DELETE FROM clips WHERE url = ?`, url)
	return err
}

func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM clips`).Scan(&count)
	return count, err
}
