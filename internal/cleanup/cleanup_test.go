package cleanup

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectEligible = `SELECT id, email, created_at FROM users WHERE is_verified=0 AND created_at < ?`
	deleteTokens   = `DELETE FROM verification_tokens WHERE user_id=?`
	deleteUser     = `DELETE FROM users WHERE id=?`
)

func eligibleRows(created time.Time, ids ...uint64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "email", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "stale@example.com", created)
	}
	return rows
}

func TestRunDeletesEligibleAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now().UTC().Add(-3 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectEligible)).
		WillReturnRows(eligibleRows(created, 11, 12))

	for _, id := range []uint64{11, 12} {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteTokens)).
			WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(deleteUser)).
			WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	n, err := Run(context.Background(), db, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNoEligibleAccountsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectEligible)).
		WillReturnRows(eligibleRows(time.Now()))

	n, err := Run(context.Background(), db, 2*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failure mid-batch rolls back only the unit in progress; prior commits
// stand and the run keeps counting what it managed to delete.
func TestRunFailedUnitRollsBackAndContinues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now().UTC().Add(-3 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectEligible)).
		WillReturnRows(eligibleRows(created, 21, 22, 23))

	// unit 21 commits
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteTokens)).WithArgs(uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).WithArgs(uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// unit 22 fails after the token delete and is rolled back
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteTokens)).WithArgs(uint64(22)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).WithArgs(uint64(22)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	// unit 23 commits
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteTokens)).WithArgs(uint64(23)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).WithArgs(uint64(23)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := Run(context.Background(), db, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSelectFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectEligible)).
		WillReturnError(errors.New("connection refused"))

	_, err = Run(context.Background(), db, 2*time.Hour)
	assert.Error(t, err)
}
