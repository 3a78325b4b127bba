package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bazar-bot/internal/listing"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("storage: record not found")

type Storage struct {
	db     *sql.DB
	logger *zap.Logger
}

// Decision carries the moderation metadata written together with a terminal status.
type Decision struct {
	ModeratorID int64
	Tags        []string
	Reason      string
}

func NewStorage(dbPath string, logger *zap.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	s := &Storage{db: db, logger: logger}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize database schema: %w", err)
	}
	logger.Info("database connection successful and schema initialized", zap.String("path", dbPath))
	return s, nil
}

func (s *Storage) initSchema() error {
	queries := []string{
		`PRAGMA foreign_keys = ON;`,

		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			car_title TEXT NOT NULL,
			engine TEXT NOT NULL,
			gearbox TEXT NOT NULL,
			mileage TEXT NOT NULL,
			city TEXT NOT NULL,
			price TEXT NOT NULL,
			contacts TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS submission_media (
			submission_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			file_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			PRIMARY KEY (submission_id, position),
			FOREIGN KEY(submission_id) REFERENCES submissions(id)
		);`,

		`CREATE TABLE IF NOT EXISTS submission_tags (
			submission_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (submission_id, position),
			FOREIGN KEY(submission_id) REFERENCES submissions(id)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("schema execution failed for query '%s': %w", query, err)
		}
	}

	// Columns added after the first release. Re-running them on an up to date
	// database fails with "duplicate column name", which is expected.
	alterQueries := []string{
		`ALTER TABLE submissions ADD COLUMN moderator_id INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE submissions ADD COLUMN deny_reason TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE submissions ADD COLUMN decided_at DATETIME`,
	}
	for _, query := range alterQueries {
		if _, err := s.db.Exec(query); err != nil {
			if !strings.Contains(err.Error(), "duplicate column name") {
				return fmt.Errorf("migration failed for query '%s': %w", query, err)
			}
		}
	}

	return nil
}

func (s *Storage) CreateSubmission(userID int64, displayName string, a listing.Answers, media []listing.Media) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `INSERT INTO submissions (
		user_id, display_name, car_title, engine, gearbox, mileage, city, price, contacts, description, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.Exec(query, userID, displayName,
		a.CarTitle, a.Engine, a.Gearbox, a.Mileage, a.City, a.Price, a.Contacts, a.Description,
		listing.StatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO submission_media (submission_id, position, file_id, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, m := range media {
		if _, err := stmt.Exec(id, i, m.FileID, m.Kind); err != nil {
			return 0, fmt.Errorf("failed to insert media %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetSubmission(id int64) (*listing.Submission, error) {
	query := `SELECT id, user_id, display_name, car_title, engine, gearbox, mileage, city, price, contacts,
		description, status, moderator_id, deny_reason, created_at, decided_at
	FROM submissions WHERE id = ?`
	row := s.db.QueryRow(query, id)

	var sub listing.Submission
	var decidedAt sql.NullTime
	a := &sub.Answers
	err := row.Scan(&sub.ID, &sub.SubmitterID, &sub.SubmitterName,
		&a.CarTitle, &a.Engine, &a.Gearbox, &a.Mileage, &a.City, &a.Price, &a.Contacts, &a.Description,
		&sub.Status, &sub.ModeratorID, &sub.DenyReason, &sub.CreatedAt, &decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if decidedAt.Valid {
		sub.DecidedAt = decidedAt.Time
	}

	if sub.Media, err = s.getMedia(id); err != nil {
		return nil, err
	}
	if sub.Tags, err = s.getTags(id); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Storage) getMedia(id int64) ([]listing.Media, error) {
	rows, err := s.db.Query(`SELECT file_id, kind FROM submission_media WHERE submission_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []listing.Media
	for rows.Next() {
		var m listing.Media
		if err := rows.Scan(&m.FileID, &m.Kind); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (s *Storage) getTags(id int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT tag FROM submission_tags WHERE submission_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// TryTransition moves a pending submission to a terminal status. It returns
// false without changing anything when the submission is no longer pending
// (or does not exist), so at most one caller ever wins.
func (s *Storage) TryTransition(id int64, to listing.Status, d Decision) (bool, error) {
	if to != listing.StatusApproved && to != listing.StatusDenied {
		return false, fmt.Errorf("invalid target status %q", to)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	query := `UPDATE submissions SET status = ?, moderator_id = ?, deny_reason = ?, decided_at = ?
		WHERE id = ? AND status = ?`
	res, err := tx.Exec(query, to, d.ModeratorID, d.Reason, time.Now().UTC(), id, listing.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	for i, tag := range d.Tags {
		if _, err := tx.Exec(`INSERT INTO submission_tags (submission_id, position, tag) VALUES (?, ?, ?)`, id, i, tag); err != nil {
			return false, fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) CountPending() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions WHERE status = ?`, listing.StatusPending).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close database", zap.Error(err))
	}
}
