package model

import "time"

// User is a Skill Hive account.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Stack        []string  `json:"stack"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserResponse is the API response for user info.
type UserResponse struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Stack       []string `json:"stack"`
	JoinDate    string   `json:"joinDate"`
	YearsActive int      `json:"yearsActive"`
}

// SignUpRequest is the body of POST /user/signup.
type SignUpRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Username string   `json:"username,omitempty"`
	Stack    []string `json:"stack,omitempty"`
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
