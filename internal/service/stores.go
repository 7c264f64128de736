package service

import (
	"context"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
)

// The store interfaces cover exactly what the services call; the pgx and
// Redis repositories satisfy them, and the tests substitute in-memory fakes.

// UserStore is the persistence surface for users.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	ListAll(ctx context.Context) ([]*model.User, error)
}

// BookStore is the persistence surface for books.
type BookStore interface {
	Create(ctx context.Context, book *model.Book) error
	ListByUser(ctx context.Context, userID int64, order repository.BookOrder) ([]*model.Book, error)
	GetDetail(ctx context.Context, id int64) (*model.BookDetail, error)
	Delete(ctx context.Context, userID, bookID int64) error
	UpdateNote(ctx context.Context, userID, bookID int64, note string) error
	Timeline(ctx context.Context, userID int64) ([]*model.TimelineEntry, error)
}

// FriendStore is the persistence surface for friendships and pending requests.
type FriendStore interface {
	AreFriends(ctx context.Context, userID, friendID int64) (bool, error)
	HasPendingFrom(ctx context.Context, fromUser, toUser int64) (bool, error)
	CreateRequest(ctx context.Context, fromUser, toUser int64) error
	DeleteRequest(ctx context.Context, fromUser, toUser int64) error
	ListIncoming(ctx context.Context, toUser int64) ([]*model.Notification, error)
	Accept(ctx context.Context, fromUser, toUser int64) error
	Remove(ctx context.Context, userID, friendID int64) error
	ListFriends(ctx context.Context, userID int64) ([]*model.FriendEntry, error)
}

// SessionStore is the session cache backing the per-request session object.
type SessionStore interface {
	Create(ctx context.Context) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Delete(ctx context.Context, id string) error
}
