package storage

import (
	"database/sql"
	"time"
)

// Visit represents one logged page or snippet navigation.
type Visit struct {
	ID        int64
	URL       string
	Title     string
	InModal   bool
	VisitedAt time.Time
}

// VisitLog records navigations in SQLite, including ones that happened
// inside the modal overlay.
type VisitLog struct {
	db *sql.DB
}

// NewVisitLog creates a visit log using the given database.
func NewVisitLog(db *DB) *VisitLog {
	return &VisitLog{db: db.Conn()}
}

// Add logs a visit. If the URL matches the most recent entry, only its
// timestamp and title are refreshed.
func (vl *VisitLog) Add(url, title string, inModal bool) {
	if url == "" {
		return
	}

	var lastID int64
	var lastURL string
	err := vl.db.QueryRow(
		`SELECT id, url FROM visits ORDER BY visited_at DESC, id DESC LIMIT 1`,
	).Scan(&lastID, &lastURL)
	if err == nil && lastURL == url {
		vl.db.Exec(
			`UPDATE visits SET title = ?, visited_at = datetime('now') WHERE id = ?`,
			title, lastID,
		)
		return
	}

	vl.db.Exec(
		`INSERT INTO visits (url, title, in_modal) VALUES (?, ?, ?)`,
		url, title, boolToInt(inModal),
	)
}

// Recent returns the most recent visits, newest first.
func (vl *VisitLog) Recent(limit int) []Visit {
	rows, err := vl.db.Query(
		`SELECT id, url, title, in_modal, visited_at FROM visits
		 ORDER BY visited_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Search finds visits whose title or URL contains the query.
func (vl *VisitLog) Search(query string, limit int) []Visit {
	like := "%" + query + "%"
	rows, err := vl.db.Query(
		`SELECT id, url, title, in_modal, visited_at FROM visits
		 WHERE title LIKE ? OR url LIKE ?
		 ORDER BY visited_at DESC, id DESC LIMIT ?`,
		like, like, limit,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Clear removes all logged visits.
func (vl *VisitLog) Clear() {
	vl.db.Exec(`DELETE FROM visits`)
}

// Count returns the number of logged visits.
func (vl *VisitLog) Count() int {
	var count int
	if err := vl.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&count); err != nil {
		return 0
	}
	return count
}

func scanVisits(rows *sql.Rows) []Visit {
	var visits []Visit
	for rows.Next() {
		var v Visit
		var inModal int
		if err := rows.Scan(&v.ID, &v.URL, &v.Title, &inModal, &v.VisitedAt); err != nil {
			continue
		}
		v.InModal = inModal != 0
		visits = append(visits, v)
	}
	return visits
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
