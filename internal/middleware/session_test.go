package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MouazMsh/Bookfliy/internal/storetest"
)

func newTestManager() (*SessionManager, *storetest.Stores) {
	stores := storetest.New()
	return NewSessionManager(stores.Sessions, "test-secret", "test_session", 3600), stores
}

func TestSignVerifyRoundTrip(t *testing.T) {
	m, _ := newTestManager()

	signed := m.sign("abc123")
	id, ok := m.verify(signed)
	require.True(t, ok)
	assert.Equal(t, "abc123", id)
}

func TestVerifyRejectsTampering(t *testing.T) {
	m, _ := newTestManager()
	other := NewSessionManager(nil, "other-secret", "test_session", 3600)

	cases := map[string]string{
		"no signature":   "abc123",
		"empty id":       m.sign(""),
		"swapped id":     "zzz." + m.sign("abc123")[7:],
		"foreign secret": other.sign("abc123"),
		"garbage sig":    "abc123.nothex",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := m.verify(value)
			assert.False(t, ok)
		})
	}
}

func TestLoadCreatesAnonymousSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _ := newTestManager()

	r := gin.New()
	r.Use(m.Load())
	r.GET("/", func(c *gin.Context) {
		sess := GetSession(c)
		require.NotNil(t, sess)
		assert.False(t, sess.Authenticated())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
	_, ok := m.verify(cookies[0].Value)
	assert.True(t, ok, "cookie must carry a signed session id")
}

func TestLoadReusesExistingSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, stores := newTestManager()

	sess, err := stores.Sessions.Create(t.Context())
	require.NoError(t, err)
	sess.UserID = 42
	require.NoError(t, stores.Sessions.Save(t.Context(), sess))

	r := gin.New()
	r.Use(m.Load())
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, int64(42), GetUserID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: m.sign(sess.ID)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _ := newTestManager()

	r := gin.New()
	r.Use(m.Load())
	r.GET("/homepage", RequireUser(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/homepage", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
