package model

import "time"

// Session carries navigation and auth state for one browser between requests.
type Session struct {
	ID              string    `json:"id"`
	CurrentPath     string    `json:"currentPath"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	UserID          string    `json:"userId,omitempty"`
	Email           string    `json:"email,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SignOut clears the auth fields, keeping the navigation state.
func (s *Session) SignOut() {
	s.IsAuthenticated = false
	s.UserID = ""
	s.Email = ""
}
