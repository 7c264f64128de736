package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/middleware"
	"github.com/MouazMsh/Bookfliy/internal/repository"
	"github.com/MouazMsh/Bookfliy/internal/service"
	"github.com/MouazMsh/Bookfliy/pkg/respond"
)

// readDateLayout matches the HTML date input submitted by the new-book form.
const readDateLayout = "2006-01-02"

// BookHandler serves the shelf pages and the book mutations.
type BookHandler struct {
	books    *service.BookService
	users    *service.UserService
	sessions service.SessionStore
}

// NewBookHandler creates a book handler.
func NewBookHandler(books *service.BookService, users *service.UserService, sessions service.SessionStore) *BookHandler {
	return &BookHandler{books: books, users: users, sessions: sessions}
}

// renderShelf renders the book list template with the user's books in the
// given order, consuming any flash on the way.
func (h *BookHandler) renderShelf(c *gin.Context, template string, order repository.BookOrder) {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	books, err := h.books.List(c.Request.Context(), userID, order)
	if err != nil {
		respond.ServerError(c, err)
		return
	}

	message, formSubmitted := consumeFlash(c, h.sessions)
	respond.Page(c, template, gin.H{
		"User":          user,
		"Books":         books,
		"Message":       message,
		"FormSubmitted": formSubmitted,
	})
}

// Homepage renders the shelf in reading order.
// GET /homepage
func (h *BookHandler) Homepage(c *gin.Context) {
	h.renderShelf(c, "index.html", repository.OrderReadDateAsc)
}

// Newest re-renders the shelf by read date, most recent first.
// GET /newest
func (h *BookHandler) Newest(c *gin.Context) {
	h.renderShelf(c, "index.html", repository.OrderReadDateDesc)
}

// ByTitle re-renders the shelf alphabetically.
// GET /title
func (h *BookHandler) ByTitle(c *gin.Context) {
	h.renderShelf(c, "index.html", repository.OrderTitleAsc)
}

// Recommendation re-renders the shelf by rating, best first.
// GET /recommendation
func (h *BookHandler) Recommendation(c *gin.Context) {
	h.renderShelf(c, "index.html", repository.OrderRatingDesc)
}

// Dashboard renders the book dashboard.
// GET /bookdash
func (h *BookHandler) Dashboard(c *gin.Context) {
	h.renderShelf(c, "bookdashboard.html", repository.OrderReadDateAsc)
}

// NotesPage renders the edit-notes page.
// GET /notes
func (h *BookHandler) NotesPage(c *gin.Context) {
	h.renderShelf(c, "editnote.html", repository.OrderReadDateAsc)
}

// NewBookPage renders the add-book form.
// GET /newbook
func (h *BookHandler) NewBookPage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "book.html", gin.H{"User": user, "Message": message})
}

// View renders one book's full detail.
// GET /view/:id
func (h *BookHandler) View(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.NotFound(c)
		return
	}

	detail, err := h.books.Detail(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			respond.NotFound(c)
			return
		}
		respond.ServerError(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}

	respond.Page(c, "viewnote.html", gin.H{"User": user, "Book": detail})
}

// Timeline renders the friends' books feed, newest read first.
// GET /timeline
func (h *BookHandler) Timeline(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	entries, err := h.books.Timeline(c.Request.Context(), userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}

	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "timeline.html", gin.H{
		"User":    user,
		"Entries": entries,
		"Message": message,
	})
}

// Create adds a book from the new-book form and flags the submission for the
// next homepage render.
// POST /new (title, author, datecom, rating, summrize, isbn, notes)
func (h *BookHandler) Create(c *gin.Context) {
	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		setFlash(c, h.sessions, "Invalid rating", false)
		respond.Redirect(c, "/newbook")
		return
	}
	readDate, err := time.Parse(readDateLayout, c.PostForm("datecom"))
	if err != nil {
		setFlash(c, h.sessions, "Invalid date", false)
		respond.Redirect(c, "/newbook")
		return
	}

	req := &service.AddBookRequest{
		Title:    c.PostForm("title"),
		Author:   c.PostForm("author"),
		ReadDate: readDate,
		Rating:   rating,
		Head:     c.PostForm("summrize"),
		ISBN:     c.PostForm("isbn"),
		Note:     c.PostForm("notes"),
	}

	userID := middleware.GetUserID(c)
	if _, err := h.books.Add(c.Request.Context(), userID, req); err != nil {
		respond.ServerError(c, err)
		return
	}

	setFlash(c, h.sessions, "", true)
	respond.Redirect(c, "/homepage")
}

// Delete removes a book by id, scoped to the logged-in owner.
// POST /deletebook (selectbookname = book id)
func (h *BookHandler) Delete(c *gin.Context) {
	bookID, ok := formInt64(c, "selectbookname")
	if !ok {
		setFlash(c, h.sessions, "Book not found", false)
		respond.Redirect(c, "/homepage")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.books.Delete(c.Request.Context(), userID, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			setFlash(c, h.sessions, "Book not found", false)
			respond.Redirect(c, "/homepage")
			return
		}
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/homepage")
}

// EditNotes replaces a book's note, scoped to the logged-in owner.
// POST /editnotes (selectbooknameedit = book id, editbooknotes)
func (h *BookHandler) EditNotes(c *gin.Context) {
	bookID, ok := formInt64(c, "selectbooknameedit")
	if !ok {
		setFlash(c, h.sessions, "Book not found", false)
		respond.Redirect(c, "/homepage")
		return
	}

	userID := middleware.GetUserID(c)
	note := c.PostForm("editbooknotes")
	if err := h.books.UpdateNote(c.Request.Context(), userID, bookID, note); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			setFlash(c, h.sessions, "Book not found", false)
			respond.Redirect(c, "/homepage")
			return
		}
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/homepage")
}
