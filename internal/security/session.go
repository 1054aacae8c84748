package security

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Preetham2004H/plant-ml/internal/conf"
)

const (
	sessionName = "plantml-session"

	keyUserID   = "user_id"
	keyUserName = "user_name"
)

// SessionManager issues and reads signed cookie sessions.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie session store signed with the
// configured secret.
func NewSessionManager(settings *conf.Settings) *SessionManager {
	store := sessions.NewCookieStore([]byte(settings.Security.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   settings.Security.SessionDuration,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// SignIn establishes a session for the given user.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID uint, userName string) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[keyUserID] = userID
	session.Values[keyUserName] = userName
	return session.Save(r, w)
}

// SignOut clears the current session.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	return session.Save(r, w)
}

// CurrentUser returns the signed-in user's id and name, if any.
func (m *SessionManager) CurrentUser(r *http.Request) (userID uint, userName string, ok bool) {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return 0, "", false
	}

	id, ok := session.Values[keyUserID].(uint)
	if !ok {
		return 0, "", false
	}
	name, _ := session.Values[keyUserName].(string)
	return id, name, true
}
