package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MouazMsh/Bookfliy/internal/model"
)

var ErrBookNotFound = errors.New("book not found")

// BookOrder selects the sort applied to a user's book list.
type BookOrder int

const (
	OrderReadDateAsc  BookOrder = iota // default homepage order
	OrderReadDateDesc                  // /newest
	OrderTitleAsc                      // /title
	OrderRatingDesc                    // /recommendation
)

// orderClauses maps a BookOrder to its ORDER BY clause. Orders never come
// from user input unmapped, so no clause is ever interpolated from a request.
var orderClauses = map[BookOrder]string{
	OrderReadDateAsc:  "ORDER BY read_date",
	OrderReadDateDesc: "ORDER BY read_date DESC",
	OrderTitleAsc:     "ORDER BY title",
	OrderRatingDesc:   "ORDER BY rating DESC",
}

// BookRepository is the data access layer for the books table.
type BookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository creates a book repository.
func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a book for its owning user.
func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author, read_date, rating, head, note, src_image, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.ReadDate,
		book.Rating,
		book.Head,
		book.Note,
		book.SrcImage,
		book.UserID,
	).Scan(&book.ID)
}

// ListByUser returns one user's books in the requested order.
func (r *BookRepository) ListByUser(ctx context.Context, userID int64, order BookOrder) ([]*model.Book, error) {
	clause, ok := orderClauses[order]
	if !ok {
		clause = orderClauses[OrderReadDateAsc]
	}
	query := `
		SELECT id, title, author, read_date, rating, head, note, src_image, user_id
		FROM books WHERE user_id = $1 ` + clause
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		book := &model.Book{}
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.ReadDate,
			&book.Rating,
			&book.Head,
			&book.Note,
			&book.SrcImage,
			&book.UserID,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// GetDetail fetches one book joined with its owner's display name.
func (r *BookRepository) GetDetail(ctx context.Context, id int64) (*model.BookDetail, error) {
	query := `
		SELECT b.id, b.title, b.author, b.read_date, b.rating, b.head, b.note, b.src_image, b.user_id, u.name
		FROM books b
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
	`
	detail := &model.BookDetail{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Author,
		&detail.ReadDate,
		&detail.Rating,
		&detail.Head,
		&detail.Note,
		&detail.SrcImage,
		&detail.UserID,
		&detail.OwnerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return detail, nil
}

// Delete removes a book by id, scoped to its owning user.
func (r *BookRepository) Delete(ctx context.Context, userID, bookID int64) error {
	query := `DELETE FROM books WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, bookID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// UpdateNote replaces a book's note, scoped to its owning user.
func (r *BookRepository) UpdateNote(ctx context.Context, userID, bookID int64, note string) error {
	query := `UPDATE books SET note = $3 WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, bookID, userID, note)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Timeline returns the books of all the user's friends, newest read first.
func (r *BookRepository) Timeline(ctx context.Context, userID int64) ([]*model.TimelineEntry, error) {
	query := `
		SELECT b.id, b.title, b.author, b.read_date, b.rating, b.head, b.note, b.src_image, b.user_id, u.name
		FROM friends f
		JOIN books b ON b.user_id = f.friend_with
		JOIN users u ON u.id = b.user_id
		WHERE f.user_id = $1
		ORDER BY b.read_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.TimelineEntry
	for rows.Next() {
		entry := &model.TimelineEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Author,
			&entry.ReadDate,
			&entry.Rating,
			&entry.Head,
			&entry.Note,
			&entry.SrcImage,
			&entry.UserID,
			&entry.OwnerName,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
