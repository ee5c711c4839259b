// ABOUTME: SQLite store for users and their uploaded resumes
// ABOUTME: Enforces one primary resume per user and newest-first listing

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/resumedeck/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row does not exist or is not owned by the caller.
var ErrNotFound = errors.New("not found")

// Fixed-width UTC layout so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type DB struct {
	conn *sql.DB
}

type User struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

type Resume struct {
	ID             string
	UserID         string
	Title          string
	FileName       string
	StorageKey     string
	MimeType       string
	SizeBytes      int64
	JobDescription string
	IsPrimary      bool
	CreatedAt      time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(ctx context.Context, dbPath string) (*DB, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if strings.HasPrefix(dbPath, ":memory:") {
		// every connection to :memory: is a distinct database
		conn.SetMaxOpenConns(1)
	} else if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("Database initialized at %s", dbPath)
	return db, nil
}

// New wraps an existing connection without migrating it.
func New(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Ping checks the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// UpsertUser inserts a user or refreshes the profile of the user with the same email.
// The stored row is returned, so an existing user keeps its original ID.
func (db *DB) UpsertUser(ctx context.Context, u User) (User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			display_name = CASE WHEN excluded.display_name != '' THEN excluded.display_name ELSE users.display_name END,
			avatar_url = CASE WHEN excluded.avatar_url != '' THEN excluded.avatar_url ELSE users.avatar_url END`,
		u.ID, u.Email, u.DisplayName, u.AvatarURL, formatTime(u.CreatedAt),
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return db.getUser(ctx, "email", u.Email)
}

// GetUser returns the user with the given ID.
func (db *DB) GetUser(ctx context.Context, id string) (User, error) {
	return db.getUser(ctx, "id", id)
}

func (db *DB) getUser(ctx context.Context, column, value string) (User, error) {
	var u User
	var created string
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, email, display_name, avatar_url, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

// CreateResume inserts a resume row. New resumes are never primary.
func (db *DB) CreateResume(ctx context.Context, r Resume) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO resumes (id, user_id, title, file_name, storage_key, mime_type, size_bytes, job_description, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		r.ID, r.UserID, r.Title, r.FileName, r.StorageKey, r.MimeType, r.SizeBytes, r.JobDescription, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

const resumeColumns = "id, user_id, title, file_name, storage_key, mime_type, size_bytes, job_description, is_primary, created_at"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanResume(s scanner) (Resume, error) {
	var r Resume
	var primary int
	var created string
	if err := s.Scan(&r.ID, &r.UserID, &r.Title, &r.FileName, &r.StorageKey, &r.MimeType,
		&r.SizeBytes, &r.JobDescription, &primary, &created); err != nil {
		return Resume{}, err
	}
	r.IsPrimary = primary == 1
	r.CreatedAt = parseTime(created)
	return r, nil
}

// GetResume returns a resume by ID.
func (db *DB) GetResume(ctx context.Context, id string) (Resume, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+resumeColumns+" FROM resumes WHERE id = ?", id)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	if err != nil {
		return Resume{}, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's resumes, newest first.
func (db *DB) ListResumes(ctx context.Context, userID string) ([]Resume, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// SetPrimary makes resumeID the user's only primary resume.
// ErrNotFound is returned when the resume does not belong to the user.
func (db *DB) SetPrimary(ctx context.Context, resumeID, userID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE resumes SET is_primary = 0 WHERE user_id = ? AND is_primary = 1", userID,
	); err != nil {
		return fmt.Errorf("failed to clear primary: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE resumes SET is_primary = 1 WHERE id = ? AND user_id = ?", resumeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set primary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set primary: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit primary change: %w", err)
	}
	return nil
}

// DeleteResume removes the user's resume and returns the deleted row.
// A missing row is not an error; the returned bool reports whether a row was removed.
func (db *DB) DeleteResume(ctx context.Context, resumeID, userID string) (Resume, bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE id = ? AND user_id = ?", resumeID, userID)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, false, nil
	}
	if err != nil {
		return Resume{}, false, fmt.Errorf("failed to load resume: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM resumes WHERE id = ? AND user_id = ?", resumeID, userID,
	)
	if err != nil {
		return Resume{}, false, fmt.Errorf("failed to delete resume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Resume{}, false, fmt.Errorf("failed to delete resume: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, false, fmt.Errorf("failed to commit delete: %w", err)
	}
	if n == 0 {
		return Resume{}, false, nil
	}
	return r, true, nil
}

// Stats returns row counts for the health endpoint.
func (db *DB) Stats(ctx context.Context) (users, resumes int, err error) {
	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM resumes").Scan(&resumes); err != nil {
		return 0, 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return users, resumes, nil
}
