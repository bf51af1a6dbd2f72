package model

import (
	"strings"
	"time"
)

// User is a registered account. Usernames are stored lowercase; the
// case-insensitive uniqueness guarantee comes from normalizing before
// every query, not from collation tricks in the database.
type User struct {
	ID           int64
	Username     string // lowercase
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// DisplayName returns the username with its first letter upper-cased,
// for greeting the user on the passport page.
func (u *User) DisplayName() string {
	if u.Username == "" {
		return "Traveler"
	}
	return strings.ToUpper(u.Username[:1]) + u.Username[1:]
}

// NormalizeUsername lowercases and trims a submitted username so lookups
// and inserts agree on one canonical form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
