package model

import "time"

// Friend is one direction of a symmetric friendship. For every (UserID,
// FriendWith) row the mirror (FriendWith, UserID) row exists as well; both are
// written and removed inside a single transaction.
type Friend struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	FriendWith int64     `json:"friend_with" db:"friend_with"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FriendEntry is a friend joined with their display fields, for the profile page.
type FriendEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Notification is a pending, directional friend request. At most one row
// exists per ordered (FromUser, ToUser) pair; the row is deleted when the
// request is accepted or declined.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	FromUser  int64     `json:"from_user" db:"from_user"`
	ToUser    int64     `json:"to_user" db:"to_user"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationView is a notification with the sender's name attached by the
// in-memory join against the user directory. Name is nil when the sender is
// missing from the directory.
type NotificationView struct {
	FromUser int64   `json:"from_user"`
	Name     *string `json:"name"`
}
