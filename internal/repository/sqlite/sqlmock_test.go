package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
)

// The tests in this file cover failures a healthy SQLite file will not
// produce on demand: dropped connections, driver errors, broken results.

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return NewFromConn(conn), mock
}

func TestCreateUser_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := db.CreateUser(context.Background(), &model.User{EmailAddress: "joe@smith.com"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`(?s)^SELECT .* FROM users WHERE email_address = \?`).
		WithArgs("joe@smith.com").
		WillReturnError(errors.New("connection reset"))

	_, err := db.GetUserByEmail(context.Background(), "joe@smith.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrNotFound), "driver errors must not look like a missing user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCourseDetails_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`(?s)^SELECT .* FROM courses c\s+JOIN users u`).WillReturnError(errors.New("disk I/O error"))

	_, err := db.ListCourseDetails(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCourse_RowsAffectedError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`(?s)^UPDATE courses`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no rows info")))

	err := db.UpdateCourse(context.Background(), &model.Course{ID: "c1", Title: "t", Description: "d", UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCourse_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`(?s)^DELETE FROM courses WHERE id = \?`).
		WithArgs("c1").
		WillReturnError(errors.New("database is locked"))

	err := db.DeleteCourse(context.Background(), "c1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCourse_ValidationSkipsDatabase(t *testing.T) {
	db, mock := newMockDB(t)

	err := db.CreateCourse(context.Background(), &model.Course{UserID: "u1"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	// No expectations registered: any statement would have failed the test.
	assert.NoError(t, mock.ExpectationsWereMet())
}
