package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MouazMsh/Bookfliy/internal/config"
	"github.com/MouazMsh/Bookfliy/internal/handler"
	"github.com/MouazMsh/Bookfliy/internal/middleware"
	"github.com/MouazMsh/Bookfliy/internal/router"
	"github.com/MouazMsh/Bookfliy/internal/service"
	"github.com/MouazMsh/Bookfliy/internal/storetest"
)

// testApp wires the real services and handlers over in-memory stores and the
// real route table, so tests drive the same paths a browser would.
type testApp struct {
	stores *storetest.Stores
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := storetest.New()

	authService := service.NewAuthService(stores.Users)
	userService := service.NewUserService(stores.Users)
	bookService := service.NewBookService(stores.Books)
	friendService := service.NewFriendService(stores.Friends, stores.Users)

	sessions := middleware.NewSessionManager(stores.Sessions, "test-secret", "bookfliy_session", 3600)

	cfg := &config.Config{App: config.AppConfig{
		Mode:         gin.TestMode,
		TemplateGlob: "../../web/templates/*.html",
		PublicDir:    "../../web/public",
	}}

	r := router.Setup(cfg, sessions,
		handler.NewAuthHandler(authService, stores.Sessions, sessions),
		handler.NewBookHandler(bookService, userService, stores.Sessions),
		handler.NewFriendHandler(friendService, userService, stores.Sessions),
	)

	return &testApp{stores: stores, router: r}
}

// do performs one request, optionally with a form body and a session cookie.
func (a *testApp) do(method, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie set on a response, or returns
// the previous one when the response did not rotate it. The last matching
// cookie wins, matching how browsers apply repeated Set-Cookie headers.
func sessionCookie(w *httptest.ResponseRecorder, previous string) string {
	cookie := previous
	for _, c := range w.Result().Cookies() {
		if c.Name == "bookfliy_session" && c.Value != "" {
			cookie = c.Name + "=" + c.Value
		}
	}
	return cookie
}

// register submits the registration form.
func (a *testApp) register(t *testing.T, name, username, email, password string) {
	t.Helper()
	w := a.do(http.MethodPost, "/register", url.Values{
		"name":     {name},
		"username": {username},
		"email":    {email},
		"password": {password},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

// login submits the login form and returns the authenticated session cookie.
func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(http.MethodPost, "/login", url.Values{
		"emailLogin":    {email},
		"passwordLogin": {password},
	}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/homepage", w.Header().Get("Location"))
	cookie := sessionCookie(w, "")
	require.NotEmpty(t, cookie)
	return cookie
}
