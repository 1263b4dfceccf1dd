package store

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These exercise withTx's commit/rollback bookkeeping directly against a
// mocked driver: real sqlite files (used everywhere else in this package's
// tests) can't easily force a mid-transaction failure, but sqlmock can
// assert the exact Begin/Exec/Commit or Begin/Exec/Rollback sequence.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &Store{db: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.withTx(func(tx *sqlx.Tx) error {
		_, execErr := tx.Exec("INSERT INTO tags (id, tag, note_count) VALUES (?, ?, 0)", "t1", "project")
		return execErr
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := s.withTx(func(tx *sqlx.Tx) error {
		_, execErr := tx.Exec("INSERT INTO tags (id, tag, note_count) VALUES (?, ?, 0)", "t1", "project")
		return execErr
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginTxRollsBackWithoutCommit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM notes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := s.Begin()
	require.NoError(t, err)

	_, err = tx.tx.Exec("DELETE FROM notes WHERE id = ?", "n1")
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
