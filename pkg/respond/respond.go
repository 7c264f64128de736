// Package respond centralizes how handlers answer: a rendered template, a
// redirect, or the generic error page. No handler returns structured API
// data; outcomes of mutations travel in the session flash instead.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders a template with its view model.
func Page(c *gin.Context, name string, data gin.H) {
	c.HTML(http.StatusOK, name, data)
}

// Redirect sends the browser to location; any outcome message is already in
// the session flash.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// ServerError logs the failure and renders the generic error page. Every
// persistence failure funnels through here; nothing is retried.
func ServerError(c *gin.Context, err error) {
	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Status": http.StatusInternalServerError,
	})
	c.Abort()
}

// NotFound renders the error page with a 404.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Status": http.StatusNotFound,
	})
	c.Abort()
}
