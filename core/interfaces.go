package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies.

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// UserStorage defines user-related database operations.
//
// CreateUser must enforce email uniqueness atomically (a unique constraint,
// not a read-then-write) and return ErrUserExists on conflict.
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error
}

// SessionStorage defines session-related database operations.
type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	GetUserSessions(ctx context.Context, userID string) ([]*Session, error)
	DeleteSessionByID(ctx context.Context, id string) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// CalendarStorage defines calendar-related database operations.
type CalendarStorage interface {
	CreateCalendar(ctx context.Context, c *Calendar) error
	GetCalendarByID(ctx context.Context, id int64) (*Calendar, error)
	ListCalendarsByUser(ctx context.Context, userID string) ([]*Calendar, error)
	CreateCalendarShare(ctx context.Context, s *CalendarShare) error
	HasCalendarAccess(ctx context.Context, calendarID int64, userID string) (bool, error)
}

// EventStorage defines event-related database operations.
type EventStorage interface {
	CreateEvent(ctx context.Context, e *Event) error
	ListEventsByCalendarAndRange(ctx context.Context, calendarID int64, from, to time.Time) ([]*Event, error)
}

// Storage is the full persistence boundary consumed by the services.
type Storage interface {
	UserStorage
	SessionStorage
	CalendarStorage
	EventStorage
}

// ============================================
// CACHE PORT
// ============================================

// Cache defines session caching operations, keyed by token hash.
type Cache interface {
	Get(ctx context.Context, tokenHash string) (*Session, error)
	Set(ctx context.Context, tokenHash string, session *Session) error
	Delete(ctx context.Context, tokenHash string) error
	Clear(ctx context.Context) error
}

// CacheWithStats extends Cache with statistics tracking.
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// HANDLER PORTS (for HTTP adapters)
// ============================================

// AuthHandler provides authentication operations for HTTP adapters.
type AuthHandler interface {
	SignUp(ctx context.Context, input SignUpInput, ipAddress, userAgent string) (*SignUpResult, error)
	SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionData, error)
	ChangeName(ctx context.Context, email, token, newName string) error
}

// CalendarHandler provides calendar operations for HTTP adapters.
// Every method re-validates the (email, token) pair before touching storage.
type CalendarHandler interface {
	CreateCalendar(ctx context.Context, email, token string, input CalendarInput) (*Calendar, error)
	ListCalendars(ctx context.Context, email, token string) ([]*Calendar, error)
	ShareCalendar(ctx context.Context, email, token string, calendarID int64, collaboratorEmail string) error
	CreateEvent(ctx context.Context, email, token string, input EventInput) (*Event, error)
	ListEvents(ctx context.Context, email, token string, calendarID int64, from, to time.Time) ([]*Event, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(auth AuthHandler, calendars CalendarHandler, basePath string) error
}
