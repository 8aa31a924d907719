package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/repository"
	"github.com/synvoy/backend/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:    "handler-test-secret",
		AccessTTLMin: 30,
		BcryptCost:   bcrypt.MinCost,
	}
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuthHandler(testConfig(),
		repository.NewUserRepo(db),
		repository.NewVerificationTokenRepo(db)), mock
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func activeUserRow(passwordHash, status string, verified bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name",
		"phone", "is_verified", "status", "created_at", "updated_at",
	}).AddRow(1, "u@example.com", passwordHash, "Ada", "Lovelace",
		nil, verified, status, now, now)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := utils.HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash := mustHash(t, "correct horse")

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("u@example.com").
		WillReturnRows(activeUserRow(hash, model.StatusActive, true))

	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/login",
		`{"email":"u@example.com","password":"correct horse"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		User        struct {
			Email        string `json:"email"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 30*60, resp.ExpiresIn)
	assert.Equal(t, "u@example.com", resp.User.Email)
	assert.Empty(t, resp.User.PasswordHash)

	claims, ok := utils.VerifyAccessToken("handler-test-secret", resp.AccessToken)
	require.True(t, ok)
	uid, ok := utils.SubjectID(claims)
	require.True(t, ok)
	assert.Equal(t, uint64(1), uid)
}

// Unknown email, wrong password and a non-active account must be
// indistinguishable in the response.
func TestLoginUniformUnauthorized(t *testing.T) {
	const body = `{"email":"u@example.com","password":"correct horse"}`

	cases := map[string]func(t *testing.T, mock sqlmock.Sqlmock){
		"unknown email": func(t *testing.T, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
				WillReturnError(sql.ErrNoRows)
		},
		"wrong password": func(t *testing.T, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
				WillReturnRows(activeUserRow(mustHash(t, "something else"), model.StatusActive, true))
		},
		"inactive account": func(t *testing.T, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
				WillReturnRows(activeUserRow(mustHash(t, "correct horse"), model.StatusInactive, true))
		},
		"suspended account": func(t *testing.T, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
				WillReturnRows(activeUserRow(mustHash(t, "correct horse"), model.StatusSuspended, true))
		},
	}

	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			h, mock := newAuthHandler(t)
			arrange(t, mock)

			c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/login", body)
			require.NoError(t, h.Login(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"incorrect email or password"}`, rec.Body.String())
		})
	}
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/login", `{"email":"u@example.com"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, first_name, last_name, phone, is_verified, status) VALUES (?,?,?,?,?,0,?)")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'u@example.com' for key 'uq_users_email'"))

	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/register",
		`{"email":"u@example.com","password":"pw","first_name":"Ada","last_name":"Lovelace"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"email already exists"}`, rec.Body.String())
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/register",
		`{"email":"u@example.com","password":"pw"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyConsumesTokenAndMarksVerified(t *testing.T) {
	h, mock := newAuthHandler(t)

	raw := "raw-verification-token"
	digest := utils.HashOpaqueToken(raw)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id FROM verification_tokens WHERE token_hash=? AND purpose=? AND expires_at > UTC_TIMESTAMP() LIMIT 1 FOR UPDATE")).
		WithArgs(digest, model.PurposeEmailVerify).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_tokens WHERE id=?")).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_verified=1 WHERE id=?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/verify", `{"token":"`+raw+`"}`)
	require.NoError(t, h.Verify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyInvalidToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id FROM verification_tokens").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := doJSON(echo.New(), http.MethodPost, "/v1/auth/verify", `{"token":"nope"}`)
	require.NoError(t, h.Verify(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
}
