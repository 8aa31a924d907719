package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synvoy/backend/internal/utils"
)

const testSecret = "middleware-test-secret"

func invoke(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "u@example.com", 5)
	require.NoError(t, err)

	rec, reached := invoke(t, "Bearer "+tok.Token)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthSetsUserID(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "u@example.com", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		uid, ok := UserID(c)
		require.True(t, ok)
		assert.Equal(t, uint64(42), uid)
		assert.Equal(t, "u@example.com", c.Get("email"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejects(t *testing.T) {
	expired, err := utils.NewAccessToken(testSecret, 1, "u@example.com", -1)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("someone-elses-secret", 1, "u@example.com", 5)
	require.NoError(t, err)

	cases := map[string]string{
		"no header":      "",
		"not bearer":     "Basic dXNlcjpwdw==",
		"garbage token":  "Bearer not.a.jwt",
		"expired token":  "Bearer " + expired.Token,
		"foreign secret": "Bearer " + foreign.Token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, reached := invoke(t, header)
			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"not authenticated"}`, rec.Body.String())
		})
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
