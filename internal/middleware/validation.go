package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching the users table.
const (
	MaxEmailLen    = 254
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input limit
	MaxUsernameLen = 40
	MaxQueryLen    = 200
	MaxStackItems  = 20
	MaxStackItem   = 32
)

var (
	// emailRe is the address check of the login form.
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// usernameRe allows letters, digits, dot, dash and underscore.
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	// uuidRe matches canonical lowercase UUIDs.
	uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateEmail trims, lowercases and checks an email address.
func ValidateEmail(email string) (string, string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", "email is required"
	}
	if len(email) > MaxEmailLen {
		return "", "email must be at most 254 characters"
	}
	if !emailRe.MatchString(email) {
		return "", "Please enter a valid email address"
	}
	return email, ""
}

// ValidatePassword checks length bounds only; passwords are never trimmed.
func ValidatePassword(pw string) (string, string) {
	if pw == "" {
		return "", "password is required"
	}
	if len(pw) < MinPasswordLen {
		return "", "password must be at least 8 characters"
	}
	if len(pw) > MaxPasswordLen {
		return "", "password must be at most 72 characters"
	}
	return pw, ""
}

// ValidateUsername checks an optional username. Empty is allowed.
func ValidateUsername(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if len(name) > MaxUsernameLen {
		return "", "username must be at most 40 characters"
	}
	if !usernameRe.MatchString(name) {
		return "", "username contains invalid characters"
	}
	return name, ""
}

// ValidateUserID checks that a user ID is a UUID.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "userId is required"
	}
	if !uuidRe.MatchString(id) {
		return "", "userId must be a UUID"
	}
	return id, ""
}

// ValidateQuery trims a free-text search topic and truncates it.
func ValidateQuery(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > MaxQueryLen {
		q = q[:MaxQueryLen]
	}
	return q
}

// ValidateStack trims entries, drops empties and caps count and length.
func ValidateStack(stack []string) []string {
	out := make([]string, 0, len(stack))
	for _, s := range stack {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) > MaxStackItem {
			s = s[:MaxStackItem]
		}
		out = append(out, s)
		if len(out) == MaxStackItems {
			break
		}
	}
	return out
}
