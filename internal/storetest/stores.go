// Package storetest provides in-memory implementations of the service store
// interfaces for tests. They mirror the relational semantics the pgx
// repositories get from Postgres: owner scoping, symmetric friendship rows,
// friend_num counters and the unique pending-request constraint.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
)

type pair struct {
	a, b int64
}

// Stores bundles the in-memory stores sharing one dataset.
type Stores struct {
	mu sync.Mutex

	userSeq int64
	users   map[int64]*model.User

	bookSeq int64
	books   map[int64]*model.Book

	friendships   map[pair]time.Time
	notifications map[pair]time.Time

	sessionSeq int64
	sessions   map[string]*model.Session

	Users    *UserStore
	Books    *BookStore
	Friends  *FriendStore
	Sessions *SessionStore
}

// New creates a fresh dataset with store views over it.
func New() *Stores {
	s := &Stores{
		users:         make(map[int64]*model.User),
		books:         make(map[int64]*model.Book),
		friendships:   make(map[pair]time.Time),
		notifications: make(map[pair]time.Time),
		sessions:      make(map[string]*model.Session),
	}
	s.Users = &UserStore{s}
	s.Books = &BookStore{s}
	s.Friends = &FriendStore{s}
	s.Sessions = &SessionStore{s}
	return s
}

// UserStore implements service.UserStore in memory.
type UserStore struct{ s *Stores }

func (u *UserStore) Create(_ context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.s.userSeq++
	user.ID = u.s.userSeq
	user.CreatedAt = time.Now()
	clone := *user
	u.s.users[user.ID] = &clone
	return nil
}

func (u *UserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (u *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return u.find(func(user *model.User) bool { return user.Email == email })
}

func (u *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return u.find(func(user *model.User) bool { return user.Username == username })
}

func (u *UserStore) find(match func(*model.User) bool) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (u *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := u.GetByEmail(ctx, email)
	if err == repository.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (u *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := u.GetByUsername(ctx, username)
	if err == repository.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (u *UserStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.Email == email {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (u *UserStore) ListAll(_ context.Context) ([]*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	users := make([]*model.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Count reports the number of stored users, for no-mutation assertions.
func (u *UserStore) Count() int {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return len(u.s.users)
}

// BookStore implements service.BookStore in memory.
type BookStore struct{ s *Stores }

func (b *BookStore) Create(_ context.Context, book *model.Book) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.bookSeq++
	book.ID = b.s.bookSeq
	clone := *book
	b.s.books[book.ID] = &clone
	return nil
}

func (b *BookStore) ListByUser(_ context.Context, userID int64, order repository.BookOrder) ([]*model.Book, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var books []*model.Book
	for _, book := range b.s.books {
		if book.UserID == userID {
			clone := *book
			books = append(books, &clone)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		switch order {
		case repository.OrderReadDateDesc:
			return books[i].ReadDate.After(books[j].ReadDate)
		case repository.OrderTitleAsc:
			return books[i].Title < books[j].Title
		case repository.OrderRatingDesc:
			return books[i].Rating > books[j].Rating
		default:
			return books[i].ReadDate.Before(books[j].ReadDate)
		}
	})
	return books, nil
}

func (b *BookStore) GetDetail(_ context.Context, id int64) (*model.BookDetail, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	book, ok := b.s.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	detail := &model.BookDetail{Book: *book}
	if owner, ok := b.s.users[book.UserID]; ok {
		detail.OwnerName = owner.Name
	}
	return detail, nil
}

func (b *BookStore) Delete(_ context.Context, userID, bookID int64) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	book, ok := b.s.books[bookID]
	if !ok || book.UserID != userID {
		return repository.ErrBookNotFound
	}
	delete(b.s.books, bookID)
	return nil
}

func (b *BookStore) UpdateNote(_ context.Context, userID, bookID int64, note string) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	book, ok := b.s.books[bookID]
	if !ok || book.UserID != userID {
		return repository.ErrBookNotFound
	}
	book.Note = note
	return nil
}

func (b *BookStore) Timeline(_ context.Context, userID int64) ([]*model.TimelineEntry, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var entries []*model.TimelineEntry
	for p := range b.s.friendships {
		if p.a != userID {
			continue
		}
		for _, book := range b.s.books {
			if book.UserID != p.b {
				continue
			}
			entry := &model.TimelineEntry{Book: *book}
			if owner, ok := b.s.users[book.UserID]; ok {
				entry.OwnerName = owner.Name
			}
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ReadDate.After(entries[j].ReadDate)
	})
	return entries, nil
}

// FriendStore implements service.FriendStore in memory.
type FriendStore struct{ s *Stores }

func (f *FriendStore) AreFriends(_ context.Context, userID, friendID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.friendships[pair{userID, friendID}]
	return ok, nil
}

func (f *FriendStore) HasPendingFrom(_ context.Context, fromUser, toUser int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.notifications[pair{fromUser, toUser}]
	return ok, nil
}

func (f *FriendStore) CreateRequest(_ context.Context, fromUser, toUser int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.notifications[pair{fromUser, toUser}]; ok {
		return nil // ON CONFLICT DO NOTHING
	}
	f.s.notifications[pair{fromUser, toUser}] = time.Now()
	return nil
}

func (f *FriendStore) DeleteRequest(_ context.Context, fromUser, toUser int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.notifications[pair{fromUser, toUser}]; !ok {
		return repository.ErrRequestNotFound
	}
	delete(f.s.notifications, pair{fromUser, toUser})
	return nil
}

func (f *FriendStore) ListIncoming(_ context.Context, toUser int64) ([]*model.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var notifications []*model.Notification
	for p, created := range f.s.notifications {
		if p.b == toUser {
			notifications = append(notifications, &model.Notification{
				FromUser:  p.a,
				ToUser:    p.b,
				CreatedAt: created,
			})
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (f *FriendStore) Accept(_ context.Context, fromUser, toUser int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.notifications[pair{fromUser, toUser}]; !ok {
		return repository.ErrRequestNotFound
	}
	delete(f.s.notifications, pair{fromUser, toUser})
	if _, ok := f.s.friendships[pair{fromUser, toUser}]; ok {
		// Crossed requests: the second accept only clears its notification.
		return nil
	}
	now := time.Now()
	f.s.friendships[pair{fromUser, toUser}] = now
	f.s.friendships[pair{toUser, fromUser}] = now
	if u, ok := f.s.users[fromUser]; ok {
		u.FriendNum++
	}
	if u, ok := f.s.users[toUser]; ok {
		u.FriendNum++
	}
	return nil
}

func (f *FriendStore) Remove(_ context.Context, userID, friendID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, forward := f.s.friendships[pair{userID, friendID}]
	_, backward := f.s.friendships[pair{friendID, userID}]
	if !forward && !backward {
		return repository.ErrNotFriends
	}
	delete(f.s.friendships, pair{userID, friendID})
	delete(f.s.friendships, pair{friendID, userID})
	if u, ok := f.s.users[userID]; ok {
		u.FriendNum--
	}
	if u, ok := f.s.users[friendID]; ok {
		u.FriendNum--
	}
	return nil
}

func (f *FriendStore) ListFriends(_ context.Context, userID int64) ([]*model.FriendEntry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var friends []*model.FriendEntry
	for p := range f.s.friendships {
		if p.a != userID {
			continue
		}
		entry := &model.FriendEntry{ID: p.b}
		if u, ok := f.s.users[p.b]; ok {
			entry.Name = u.Name
			entry.Username = u.Username
		}
		friends = append(friends, entry)
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].Name < friends[j].Name })
	return friends, nil
}

// FriendshipExists reports one direction of a friendship, for symmetry
// assertions.
func (f *FriendStore) FriendshipExists(userID, friendID int64) bool {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.friendships[pair{userID, friendID}]
	return ok
}

// PendingCount reports how many pending requests exist, for duplicate
// assertions.
func (f *FriendStore) PendingCount() int {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.s.notifications)
}

// SessionStore implements service.SessionStore in memory.
type SessionStore struct{ s *Stores }

func (st *SessionStore) Create(_ context.Context) (*model.Session, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.sessionSeq++
	sess := &model.Session{ID: fmt.Sprintf("sess-%d", st.s.sessionSeq)}
	clone := *sess
	st.s.sessions[sess.ID] = &clone
	return sess, nil
}

func (st *SessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	sess, ok := st.s.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

func (st *SessionStore) Save(_ context.Context, sess *model.Session) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	clone := *sess
	st.s.sessions[sess.ID] = &clone
	return nil
}

func (st *SessionStore) Delete(_ context.Context, id string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	delete(st.s.sessions, id)
	return nil
}

// Session returns the stored session by id, for flash assertions.
func (st *SessionStore) Session(id string) *model.Session {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	sess, ok := st.s.sessions[id]
	if !ok {
		return nil
	}
	clone := *sess
	return &clone
}
