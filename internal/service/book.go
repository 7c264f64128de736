package service

import (
	"context"
	"time"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
)

// coverAPI is the Open Library cover endpoint; the large cover is derived
// from the ISBN when a book is added and stored on the row.
const coverAPI = "https://covers.openlibrary.org/b/isbn/"

// CoverURL builds the stored cover image URL for an ISBN.
func CoverURL(isbn string) string {
	return coverAPI + isbn + "-L.jpg"
}

// AddBookRequest carries the coerced new-book form fields.
type AddBookRequest struct {
	Title    string
	Author   string
	ReadDate time.Time
	Rating   int
	Head     string
	ISBN     string
	Note     string
}

// BookService implements the book shelf: CRUD scoped to the owner plus the
// sorted list views and the friends timeline.
type BookService struct {
	books BookStore
}

// NewBookService creates a book service.
func NewBookService(books BookStore) *BookService {
	return &BookService{books: books}
}

// Add inserts a book owned by userID.
func (s *BookService) Add(ctx context.Context, userID int64, req *AddBookRequest) (*model.Book, error) {
	book := &model.Book{
		Title:    req.Title,
		Author:   req.Author,
		ReadDate: req.ReadDate,
		Rating:   req.Rating,
		Head:     req.Head,
		Note:     req.Note,
		SrcImage: CoverURL(req.ISBN),
		UserID:   userID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// List returns the user's books in the requested order.
func (s *BookService) List(ctx context.Context, userID int64, order repository.BookOrder) ([]*model.Book, error) {
	return s.books.ListByUser(ctx, userID, order)
}

// Detail fetches one book with its owner's name. Not owner-scoped: the
// timeline links to friends' books.
func (s *BookService) Detail(ctx context.Context, bookID int64) (*model.BookDetail, error) {
	return s.books.GetDetail(ctx, bookID)
}

// Delete removes the user's book by id.
func (s *BookService) Delete(ctx context.Context, userID, bookID int64) error {
	return s.books.Delete(ctx, userID, bookID)
}

// UpdateNote replaces the note on the user's book.
func (s *BookService) UpdateNote(ctx context.Context, userID, bookID int64, note string) error {
	return s.books.UpdateNote(ctx, userID, bookID, note)
}

// Timeline returns the books of the user's friends, newest read first.
func (s *BookService) Timeline(ctx context.Context, userID int64) ([]*model.TimelineEntry, error) {
	return s.books.Timeline(ctx, userID)
}
