package core

import "time"

// User represents a registered identity in the system.
//
// Email is the uniqueness key (case-sensitive exact match).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser constructs a fully-populated User. Every required field is a
// parameter so a half-built User cannot exist.
func NewUser(email, name, passwordHash string) (*User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if passwordHash == "" {
		return nil, ErrPasswordHashRequired
	}
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}, nil
}

// Session represents an active login session.
//
// Only the SHA-256 hash of the token is stored; the raw token is returned to
// the client exactly once, at creation.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"` // Never expose in JSON
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expired reports whether the session's lifetime has elapsed at t.
func (s *Session) Expired(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// SessionData combines user and session info.
// The model returned to clients.
type SessionData struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// Calendar is a named collection of events owned by a single user and
// optionally shared with collaborators.
type Calendar struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Event belongs to exactly one calendar.
type Event struct {
	ID          int64     `json:"id"`
	CalendarID  int64     `json:"calendarId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CalendarShare grants a collaborator access to a calendar they do not own.
type CalendarShare struct {
	CalendarID int64     `json:"calendarId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}
