package model

import "time"

// RoleUser is the only role assigned at registration.
const RoleUser = "User"

// User is a registered account. FriendNum is a denormalized count of rows in
// the friends table, kept in step by the friendship transactions.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	FriendNum    int       `json:"friend_num" db:"friend_num"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
