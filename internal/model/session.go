package model

// Session is the per-browser-session state kept in Redis. UserID is zero for
// anonymous sessions. Message and FormSubmitted are one-shot flash flags: set
// just before a redirect, consumed and cleared by the next rendered page.
type Session struct {
	ID            string `json:"-"`
	UserID        int64  `json:"user_id"`
	Message       string `json:"message,omitempty"`
	FormSubmitted bool   `json:"form_submitted,omitempty"`
}

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}
