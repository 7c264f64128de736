package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MouazMsh/Bookfliy/internal/model"
)

var (
	ErrRequestNotFound = errors.New("friend request not found")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrRequestPending  = errors.New("friend request pending")
	ErrNotFriends      = errors.New("not friends")
)

// FriendRepository is the data access layer for the friends and notification
// tables. The multi-row mutations (accept, remove) run inside a single
// transaction so the symmetric rows and the friend_num counters cannot drift.
type FriendRepository struct {
	db *pgxpool.Pool
}

// NewFriendRepository creates a friend repository.
func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// AreFriends reports whether a friendship row (userID, friendID) exists.
// Symmetry makes checking one direction sufficient.
func (r *FriendRepository) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = $1 AND friend_with = $2)`
	err := r.db.QueryRow(ctx, query, userID, friendID).Scan(&exists)
	return exists, err
}

// HasPendingFrom reports whether fromUser already has a pending request to
// toUser. Callers check only requests sent by the current user; the reverse
// direction is deliberately not consulted here.
func (r *FriendRepository) HasPendingFrom(ctx context.Context, fromUser, toUser int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notification WHERE from_user = $1 AND to_user = $2)`
	err := r.db.QueryRow(ctx, query, fromUser, toUser).Scan(&exists)
	return exists, err
}

// CreateRequest records a pending friend request. The unique constraint on
// (from_user, to_user) backs the at-most-one-pending invariant.
func (r *FriendRepository) CreateRequest(ctx context.Context, fromUser, toUser int64) error {
	query := `
		INSERT INTO notification (from_user, to_user)
		VALUES ($1, $2)
		ON CONFLICT (from_user, to_user) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, fromUser, toUser)
	return err
}

// DeleteRequest removes a pending request (decline, or explicit removal).
func (r *FriendRepository) DeleteRequest(ctx context.Context, fromUser, toUser int64) error {
	query := `DELETE FROM notification WHERE from_user = $1 AND to_user = $2`
	result, err := r.db.Exec(ctx, query, fromUser, toUser)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// ListIncoming returns the pending requests addressed to the user.
func (r *FriendRepository) ListIncoming(ctx context.Context, toUser int64) ([]*model.Notification, error) {
	query := `
		SELECT id, from_user, to_user, created_at
		FROM notification WHERE to_user = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, toUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		n := &model.Notification{}
		if err := rows.Scan(&n.ID, &n.FromUser, &n.ToUser, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// Accept turns the pending request fromUser -> toUser into a friendship in
// one transaction: delete the notification, insert both friendship rows and
// bump both friend_num counters.
func (r *FriendRepository) Accept(ctx context.Context, fromUser, toUser int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM notification WHERE from_user = $1 AND to_user = $2`,
		fromUser, toUser,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	insert := `
		INSERT INTO friends (user_id, friend_with)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_with) DO NOTHING
	`
	inserted, err := tx.Exec(ctx, insert, toUser, fromUser)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insert, fromUser, toUser); err != nil {
		return err
	}

	// Crossed requests can both be accepted; the second accept only clears
	// its notification. The counters move with the rows, not per accept.
	if inserted.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET friend_num = friend_num + 1 WHERE id = $1 OR id = $2`,
			fromUser, toUser,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Remove deletes the friendship in both directions and decrements both
// friend_num counters, all in one transaction.
func (r *FriendRepository) Remove(ctx context.Context, userID, friendID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM friends
		 WHERE (user_id = $1 AND friend_with = $2) OR (user_id = $2 AND friend_with = $1)`,
		userID, friendID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFriends
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET friend_num = friend_num - 1 WHERE id = $1 OR id = $2`,
		userID, friendID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListFriends returns the user's friends joined with their display fields.
func (r *FriendRepository) ListFriends(ctx context.Context, userID int64) ([]*model.FriendEntry, error) {
	query := `
		SELECT u.id, u.name, u.username
		FROM friends f
		JOIN users u ON u.id = f.friend_with
		WHERE f.user_id = $1
		ORDER BY u.name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []*model.FriendEntry
	for rows.Next() {
		f := &model.FriendEntry{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Username); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}
