package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatedRoutesRedirectAnonymous(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/homepage", "/bookdash", "/notes", "/newbook", "/profile", "/timeline", "/newest"} {
		w := app.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Alice", "alice", "alice@x.com", "pw1")
	cookie := app.login(t, "alice@x.com", "pw1")

	w := app.do(http.MethodGet, "/homepage", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
}

func TestLoginRotatesSessionCookieOnce(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice", "alice@x.com", "pw1")

	w := app.do(http.MethodPost, "/login", url.Values{
		"emailLogin":    {"alice@x.com"},
		"passwordLogin": {"pw1"},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)

	// The rotation must replace the anonymous cookie issued earlier in the
	// request, not stack a second Set-Cookie header beside it.
	var sessionCookies []string
	for _, c := range w.Result().Cookies() {
		if c.Name == "bookfliy_session" {
			sessionCookies = append(sessionCookies, c.Name+"="+c.Value)
		}
	}
	require.Len(t, sessionCookies, 1)

	w = app.do(http.MethodGet, "/homepage", nil, sessionCookies[0])
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailureFlash(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice", "alice@x.com", "pw1")

	// Wrong password redirects back with the specific message as flash.
	w := app.do(http.MethodPost, "/login", url.Values{
		"emailLogin":    {"alice@x.com"},
		"passwordLogin": {"wrong"},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
	cookie := sessionCookie(w, "")
	require.NotEmpty(t, cookie)

	w = app.do(http.MethodGet, "/login", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect Password")

	// Flash is one-shot: the next render no longer shows it.
	w = app.do(http.MethodGet, "/login", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Incorrect Password")

	// Unknown email gets its own message.
	w = app.do(http.MethodPost, "/login", url.Values{
		"emailLogin":    {"nobody@x.com"},
		"passwordLogin": {"pw1"},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	w = app.do(http.MethodGet, "/login", nil, cookie)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestRegisterDuplicateFlash(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice", "alice@x.com", "pw1")

	w := app.do(http.MethodPost, "/register", url.Values{
		"name":     {"Other"},
		"username": {"other"},
		"email":    {"alice@x.com"},
		"password": {"pw2"},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/register", w.Header().Get("Location"))
	cookie := sessionCookie(w, "")

	w = app.do(http.MethodGet, "/register", nil, cookie)
	assert.Contains(t, w.Body.String(), "Email already exists. Try logging in.")
}

func TestForgotPassword(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice", "alice@x.com", "pw1")

	// Unknown email bounces back to /forgot with the message.
	w := app.do(http.MethodPost, "/forgotpass", url.Values{
		"emailForgot": {"nobody@x.com"},
		"newPass":     {"pw2"},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/forgot", w.Header().Get("Location"))
	cookie := sessionCookie(w, "")
	w = app.do(http.MethodGet, "/forgot", nil, cookie)
	assert.Contains(t, w.Body.String(), "User is not existed, try Register")

	// A real reset changes the password.
	w = app.do(http.MethodPost, "/forgotpass", url.Values{
		"emailForgot": {"alice@x.com"},
		"newPass":     {"pw2"},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	app.login(t, "alice@x.com", "pw2")
}

func TestLogoutDestroysSession(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice", "alice@x.com", "pw1")
	cookie := app.login(t, "alice@x.com", "pw1")

	w := app.do(http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	// The old cookie no longer resolves to an authenticated session.
	w = app.do(http.MethodGet, "/homepage", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
