package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synvoy/backend/internal/model"
)

const consumeSelect = `SELECT id, user_id FROM verification_tokens WHERE token_hash=? AND purpose=? AND expires_at > UTC_TIMESTAMP() LIMIT 1 FOR UPDATE`

func TestVerificationTokenStore(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationTokenRepo(db)

	exp := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO verification_tokens (user_id, token_hash, purpose, expires_at) VALUES (?,?,?,?)")).
		WithArgs(uint64(5), "digest", model.PurposeEmailVerify, exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Store(context.Background(), 5, "digest", model.PurposeEmailVerify, exp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Consuming a live token deletes it in the same transaction as the lookup.
func TestVerificationTokenConsume(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("digest", model.PurposeEmailVerify).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(31, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_tokens WHERE id=?")).
		WithArgs(uint64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uid, err := repo.Consume(context.Background(), "digest", model.PurposeEmailVerify)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Unknown, expired and wrong-purpose tokens all surface as sql.ErrNoRows.
func TestVerificationTokenConsumeMiss(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Consume(context.Background(), "missing", model.PurposeDeleteCancel)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationTokenDeleteByUserTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewVerificationTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_tokens WHERE user_id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByUserTx(context.Background(), tx, 5))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
