// Package analytics records page visits and outbound project clicks
// without keeping raw IP addresses.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zachkp/portfolio/internal/clock"
)

// Visit is one tracked page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectStat counts clicks through to one project's link.
type ProjectStat struct {
	Slug        string    `json:"slug"`
	Link        string    `json:"link"`
	Clicks      int64     `json:"clicks"`
	LastClicked time.Time `json:"last_clicked"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	TotalClicks      int64         `json:"total_clicks"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TopProjects      []ProjectStat `json:"top_projects"`
	RecentVisitors   []Visit       `json:"recent_visitors"`
}

// Store is the sqlite-backed tracker.
type Store struct {
	db    *sql.DB
	clock clock.Clock
	salt  string
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_visited_at ON visitors (visited_at);
CREATE TABLE IF NOT EXISTS project_clicks (
	slug TEXT PRIMARY KEY,
	link TEXT NOT NULL,
	clicks INTEGER NOT NULL DEFAULT 0,
	last_clicked INTEGER NOT NULL
);`

// Open opens (creating if needed) the database at path. ":memory:" is
// accepted for tests. An empty salt is replaced by a random one, which
// makes hashes unlinkable across restarts.
func Open(path string, clk clock.Clock, salt string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// One connection keeps ":memory:" a single database and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create analytics tables: %w", err)
	}

	if salt == "" {
		salt, err = randomHex(32)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{db: db, clock: clk, salt: salt}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP returns a salted, truncated hash that is stable for one IP.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.clock.Now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordClick counts one click through to a project link.
func (s *Store) RecordClick(ctx context.Context, slug, link string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_clicks (slug, link, clicks, last_clicked) VALUES (?, ?, 1, ?)
		ON CONFLICT(slug) DO UPDATE SET
			clicks = clicks + 1,
			link = excluded.link,
			last_clicked = excluded.last_clicked`,
		slug, link, s.clock.Now().Unix())
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// Stats summarizes traffic. recent limits the visitor list.
func (s *Store) Stats(ctx context.Context, recent int) (*Stats, error) {
	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM project_clicks`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{today.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{week.Unix()}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopProjects, err = s.TopProjects(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisits(ctx, recent); err != nil {
		return nil, err
	}
	return stats, nil
}

// TopProjects returns the most clicked projects.
func (s *Store) TopProjects(ctx context.Context, limit int) ([]ProjectStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, link, clicks, last_clicked FROM project_clicks
		ORDER BY clicks DESC, last_clicked DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectStat
	for rows.Next() {
		var p ProjectStat
		var last int64
		if err := rows.Scan(&p.Slug, &p.Link, &p.Clicks, &last); err != nil {
			return nil, fmt.Errorf("scan project click: %w", err)
		}
		p.LastClicked = time.Unix(last, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentVisits returns the newest visits first.
func (s *Store) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visitors ORDER BY visited_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &at); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Timestamp = time.Unix(at, 0).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// Cleanup deletes visits older than retention and returns how many
// went.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.clock.Now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	return res.RowsAffected()
}

var skipPrefixes = []string{"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/healthz", "/typed", "/theme"}

// ShouldTrack reports whether a request is a page view worth keeping.
// Assets, admin pages and Do-Not-Track requests are skipped.
func ShouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
