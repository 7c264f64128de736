package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/service"
)

const sessionContextKey = "session"

// SessionManager loads the per-request session from the store and hands it
// to handlers through the gin context. The cookie carries only the session
// id, HMAC-signed with the session secret; all state lives server-side.
type SessionManager struct {
	store      service.SessionStore
	secret     []byte
	cookieName string
	maxAge     int
}

// NewSessionManager creates a session manager.
func NewSessionManager(store service.SessionStore, secret, cookieName string, maxAgeSeconds int) *SessionManager {
	return &SessionManager{
		store:      store,
		secret:     []byte(secret),
		cookieName: cookieName,
		maxAge:     maxAgeSeconds,
	}
}

// Load is the middleware that attaches a session to every request. A
// missing, tampered or expired cookie gets a fresh anonymous session so the
// flash pattern works on the login and register pages too.
func (m *SessionManager) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.fromCookie(c)
		if sess == nil {
			created, err := m.store.Create(c.Request.Context())
			if err != nil {
				slog.Error("create session", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			sess = created
			m.SetCookie(c, sess.ID)
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func (m *SessionManager) fromCookie(c *gin.Context) *model.Session {
	value, err := c.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	id, ok := m.verify(value)
	if !ok {
		return nil
	}
	sess, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		slog.Error("load session", "error", err)
		return nil
	}
	return sess
}

// RequireUser guards the authenticated routes: an anonymous session is
// redirected to the login page instead of running queries with no user id.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the session attached by Load, or nil.
func GetSession(c *gin.Context) *model.Session {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	return v.(*model.Session)
}

// GetUserID returns the logged-in user's id, or zero.
func GetUserID(c *gin.Context) int64 {
	sess := GetSession(c)
	if sess == nil {
		return 0
	}
	return sess.UserID
}

// SetCookie writes the signed session cookie, replacing any session cookie
// already queued on the response. Login rotates the session id after Load has
// issued an anonymous one, and the response must carry a single session
// cookie.
func (m *SessionManager) SetCookie(c *gin.Context, id string) {
	m.dropQueuedCookie(c)
	c.SetCookie(m.cookieName, m.sign(id), m.maxAge, "/", "", false, true)
}

// ClearCookie drops the session cookie (logout).
func (m *SessionManager) ClearCookie(c *gin.Context) {
	m.dropQueuedCookie(c)
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
}

// dropQueuedCookie removes any not-yet-flushed Set-Cookie header for the
// session cookie from the response.
func (m *SessionManager) dropQueuedCookie(c *gin.Context) {
	header := c.Writer.Header()
	queued := header.Values("Set-Cookie")
	if len(queued) == 0 {
		return
	}
	header.Del("Set-Cookie")
	for _, v := range queued {
		if !strings.HasPrefix(v, m.cookieName+"=") {
			header.Add("Set-Cookie", v)
		}
	}
}

// sign produces "id.hex(hmac-sha256(id))".
func (m *SessionManager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// verify splits and checks a signed cookie value, returning the session id.
func (m *SessionManager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	want, err := hex.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return id, true
}
