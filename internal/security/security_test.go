package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preetham2004H/plant-ml/internal/conf"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword(nil, "s3cret"))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	settings := &conf.Settings{}
	settings.Security.SessionSecret = "0123456789abcdef0123456789abcdef"
	settings.Security.SessionDuration = 3600
	return NewSessionManager(settings)
}

func TestSessionRoundTrip(t *testing.T) {
	m := newTestSessionManager(t)

	// Sign in writes a session cookie
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", http.NoBody)
	require.NoError(t, m.SignIn(rec, req, 42, "Asha"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// A follow-up request carrying the cookie resolves the user
	next := httptest.NewRequest(http.MethodGet, "/records", http.NoBody)
	for _, cookie := range cookies {
		next.AddCookie(cookie)
	}
	userID, userName, ok := m.CurrentUser(next)
	require.True(t, ok)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "Asha", userName)
}

func TestCurrentUserWithoutSession(t *testing.T) {
	m := newTestSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/records", http.NoBody)
	_, _, ok := m.CurrentUser(req)

	assert.False(t, ok)
}

func TestSignOutInvalidatesCookie(t *testing.T) {
	m := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", http.NoBody)
	require.NoError(t, m.SignOut(rec, req))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}
