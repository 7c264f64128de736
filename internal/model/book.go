package model

import "time"

// Book is one read book owned by a single user. SrcImage is the Open Library
// cover URL derived from the ISBN at creation time.
type Book struct {
	ID       int64     `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	Author   string    `json:"author" db:"author"`
	ReadDate time.Time `json:"read_date" db:"read_date"`
	Rating   int       `json:"rating" db:"rating"`
	Head     string    `json:"head" db:"head"`
	Note     string    `json:"note" db:"note"`
	SrcImage string    `json:"src_image" db:"src_image"`
	UserID   int64     `json:"user_id" db:"user_id"`
}

// BookDetail is one book joined with its owner's display name, for the
// single-book view page.
type BookDetail struct {
	Book
	OwnerName string `json:"owner_name"`
}

// TimelineEntry is one friend's book on the social timeline.
type TimelineEntry struct {
	Book
	OwnerName string `json:"owner_name"`
}
