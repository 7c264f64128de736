package router

import (
	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/config"
	"github.com/MouazMsh/Bookfliy/internal/handler"
	"github.com/MouazMsh/Bookfliy/internal/middleware"
)

// Setup builds the gin engine with the full route table. Every route runs
// with a session attached; the authenticated group additionally redirects
// anonymous visitors to /login.
func Setup(
	cfg *config.Config,
	sessions *middleware.SessionManager,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	friendHandler *handler.FriendHandler,
) *gin.Engine {
	gin.SetMode(cfg.App.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(sessions.Load())

	r.LoadHTMLGlob(cfg.App.TemplateGlob)
	r.Static("/public", cfg.App.PublicDir)

	// Entry pages and auth flows
	r.GET("/", authHandler.Landing)
	r.GET("/login", authHandler.LoginPage)
	r.GET("/register", authHandler.RegisterPage)
	r.GET("/forgot", authHandler.ForgotPage)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/forgotpass", authHandler.Forgot)
	r.GET("/logout", authHandler.Logout)

	// Authenticated pages and mutations
	authed := r.Group("", middleware.RequireUser())
	{
		authed.GET("/homepage", bookHandler.Homepage)
		authed.GET("/bookdash", bookHandler.Dashboard)
		authed.GET("/notes", bookHandler.NotesPage)
		authed.GET("/newbook", bookHandler.NewBookPage)
		authed.GET("/view/:id", bookHandler.View)
		authed.GET("/newest", bookHandler.Newest)
		authed.GET("/title", bookHandler.ByTitle)
		authed.GET("/recommendation", bookHandler.Recommendation)
		authed.GET("/timeline", bookHandler.Timeline)

		authed.POST("/new", bookHandler.Create)
		authed.POST("/deletebook", bookHandler.Delete)
		authed.POST("/editnotes", bookHandler.EditNotes)

		authed.GET("/profile", friendHandler.Profile)
		authed.POST("/addfriends", friendHandler.Add)
		authed.POST("/acceptrequest", friendHandler.Accept)
		authed.POST("/removerequest", friendHandler.Decline)
		authed.POST("/removefriends", friendHandler.Remove)
	}

	return r
}
