package domain

import "time"

// User represents a bot user as recorded on first contact
type User struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	FirstSeen time.Time
}

// DisplayName returns first name with @username appended when present
func (u User) DisplayName() string {
	return displayName(u.FirstName, u.Username)
}

func displayName(firstName, username string) string {
	if username == "" {
		return firstName
	}
	if firstName == "" {
		return "@" + username
	}
	return firstName + " @" + username
}

// UserState represents user's current conversation state
type UserState string

const (
	StateIdle           UserState = "idle"
	StateAwaitingAmount UserState = "awaiting_amount"
)
