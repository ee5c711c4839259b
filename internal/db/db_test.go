package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, email string) User {
	t.Helper()
	u, err := db.UpsertUser(context.Background(), User{ID: uuid.NewString(), Email: email, DisplayName: "Ada"})
	require.NoError(t, err)
	return u
}

func seedResume(t *testing.T, db *DB, userID, title string, at time.Time) Resume {
	t.Helper()
	r := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		FileName:   title + ".pdf",
		StorageKey: "k/" + title,
		MimeType:   "application/pdf",
		SizeBytes:  42,
		CreatedAt:  at,
	}
	require.NoError(t, db.CreateResume(context.Background(), r))
	return r
}

func TestUpsertUser_KeepsIDForSameEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := seedUser(t, db, "ada@example.com")
	second, err := db.UpsertUser(ctx, User{ID: uuid.NewString(), Email: "ada@example.com", AvatarURL: "https://img/a.png"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada", second.DisplayName, "empty name must not clobber stored name")
	assert.Equal(t, "https://img/a.png", second.AvatarURL)
}

func TestGetUser_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListResumes_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "ada@example.com")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seedResume(t, db, u.ID, "old", base)
	seedResume(t, db, u.ID, "new", base.Add(2*time.Hour))
	seedResume(t, db, u.ID, "mid", base.Add(time.Hour))

	other := seedUser(t, db, "bob@example.com")
	seedResume(t, db, other.ID, "bobs", base)

	list, err := db.ListResumes(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Title, list[1].Title, list[2].Title})
	assert.Equal(t, base.Add(2*time.Hour), list[0].CreatedAt)
	assert.False(t, list[0].IsPrimary)
}

func TestListResumes_EmptyIsNotNil(t *testing.T) {
	db := openTestDB(t)
	list, err := db.ListResumes(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSetPrimary_SingleIsPrimary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "ada@example.com")
	a := seedResume(t, db, u.ID, "a", time.Now())
	b := seedResume(t, db, u.ID, "b", time.Now().Add(time.Second))

	require.NoError(t, db.SetPrimary(ctx, a.ID, u.ID))
	require.NoError(t, db.SetPrimary(ctx, b.ID, u.ID))

	list, err := db.ListResumes(ctx, u.ID)
	require.NoError(t, err)
	primaries := 0
	for _, r := range list {
		if r.IsPrimary {
			primaries++
			assert.Equal(t, b.ID, r.ID)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestSetPrimary_OtherUsersResume(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ada := seedUser(t, db, "ada@example.com")
	bob := seedUser(t, db, "bob@example.com")
	mine := seedResume(t, db, ada.ID, "mine", time.Now())
	require.NoError(t, db.SetPrimary(ctx, mine.ID, ada.ID))

	theirs := seedResume(t, db, bob.ID, "theirs", time.Now())
	err := db.SetPrimary(ctx, theirs.ID, ada.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// rollback keeps the previous primary
	got, err := db.GetResume(ctx, mine.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)
}

func TestDeleteResume_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "ada@example.com")
	r := seedResume(t, db, u.ID, "a", time.Now())

	deleted, ok, err := db.DeleteResume(ctx, r.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, r.StorageKey, deleted.StorageKey)

	_, ok, err = db.DeleteResume(ctx, r.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = db.GetResume(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteResume_WrongOwner(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ada := seedUser(t, db, "ada@example.com")
	r := seedResume(t, db, ada.ID, "a", time.Now())

	_, ok, err := db.DeleteResume(ctx, r.ID, "someone-else")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = db.GetResume(ctx, r.ID)
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "ada@example.com")
	seedResume(t, db, u.ID, "a", time.Now())

	users, resumes, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, resumes)
}

func TestSetPrimary_RollsBackOnUpdateFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET is_primary = 0").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes SET is_primary = 1").
		WithArgs("resume-1", "user-1").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = New(conn).SetPrimary(context.Background(), "resume-1", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set primary")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPrimary_CommitsOnSuccess(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET is_primary = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE resumes SET is_primary = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, New(conn).SetPrimary(context.Background(), "resume-1", "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func resumeRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "file_name", "storage_key",
		"mime_type", "size_bytes", "job_description", "is_primary", "created_at"}).
		AddRow("resume-1", "user-1", "Backend", "cv.pdf", "user-1/resume-1.pdf",
			"application/pdf", 8, "", 0, "2026-01-02T03:04:05Z")
}

func TestDeleteResume_SelectAndDeleteShareTransaction(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM resumes WHERE id = \\? AND user_id = \\?").
		WithArgs("resume-1", "user-1").
		WillReturnRows(resumeRow())
	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("resume-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, ok, err := New(conn).DeleteResume(context.Background(), "resume-1", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1/resume-1.pdf", r.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteResume_RollsBackOnDeleteFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM resumes").WillReturnRows(resumeRow())
	mock.ExpectExec("DELETE FROM resumes").WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, ok, err := New(conn).DeleteResume(context.Background(), "resume-1", "user-1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "failed to delete resume")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteResume_RowGoneBeforeDelete(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM resumes").WillReturnRows(resumeRow())
	mock.ExpectExec("DELETE FROM resumes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, ok, err := New(conn).DeleteResume(context.Background(), "resume-1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok, "nothing was removed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResumes_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectQuery("SELECT .* FROM resumes WHERE user_id").
		WithArgs("user-1").
		WillReturnError(errors.New("database is locked"))

	_, err = New(conn).ListResumes(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
