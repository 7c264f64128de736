package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/middleware"
	"github.com/MouazMsh/Bookfliy/internal/service"
)

// consumeFlash reads the one-shot flags off the session and clears them, so
// the message shows on exactly one rendered page.
func consumeFlash(c *gin.Context, store service.SessionStore) (message string, formSubmitted bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		return "", false
	}
	message, formSubmitted = sess.Message, sess.FormSubmitted
	if message != "" || formSubmitted {
		sess.Message = ""
		sess.FormSubmitted = false
		if err := store.Save(c.Request.Context(), sess); err != nil {
			slog.Error("clear flash", "error", err)
		}
	}
	return message, formSubmitted
}

// setFlash stores the flags read by the next rendered page.
func setFlash(c *gin.Context, store service.SessionStore, message string, formSubmitted bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		return
	}
	sess.Message = message
	sess.FormSubmitted = formSubmitted
	if err := store.Save(c.Request.Context(), sess); err != nil {
		slog.Error("set flash", "error", err)
	}
}

// formInt64 parses an integer form field, returning ok=false on junk input.
func formInt64(c *gin.Context, field string) (int64, bool) {
	v, err := strconv.ParseInt(c.PostForm(field), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
