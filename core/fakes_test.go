package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeStorage is a test-only in-memory implementation of Storage. Error
// fields allow injecting failures for specific operations.
type fakeStorage struct {
	mu sync.RWMutex

	users     map[string]*User
	sessions  map[string]*Session // keyed by token hash
	calendars map[int64]*Calendar
	shares    map[int64]map[string]bool // calendarID -> userID set
	events    map[int64]*Event

	nextUserSeq     int
	nextCalendarID  int64
	nextEventID     int64
	createUserErr   error
	getUserErr      error
	createSessErr   error
	getSessErr      error
	createCalErr    error
	createEventErr  error
	listEventsErr   error
	accessErr       error
	updateUserErr   error
	deleteSessErr   error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:     make(map[string]*User),
		sessions:  make(map[string]*Session),
		calendars: make(map[int64]*Calendar),
		shares:    make(map[int64]map[string]bool),
		events:    make(map[int64]*Event),
	}
}

// UserStorage

func (f *fakeStorage) CreateUser(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrUserExists
		}
	}
	f.nextUserSeq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextUserSeq)
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.users[u.ID] = u
	return nil
}

func (f *fakeStorage) GetUserByID(_ context.Context, id string) (*User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeStorage) GetUserByEmail(_ context.Context, email string) (*User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeStorage) UpdateUser(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateUserErr != nil {
		return f.updateUserErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	u.UpdatedAt = time.Now()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStorage) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// SessionStorage

func (f *fakeStorage) CreateSession(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSessErr != nil {
		return f.createSessErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *fakeStorage) GetSessionByHash(_ context.Context, tokenHash string) (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getSessErr != nil {
		return nil, f.getSessErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeStorage) GetUserSessions(_ context.Context, userID string) ([]*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStorage) DeleteSessionByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, k)
			return nil
		}
	}
	return ErrSessionNotFound
}

func (f *fakeStorage) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessErr != nil {
		return f.deleteSessErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeStorage) DeleteUserSessions(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for k, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

func (f *fakeStorage) DeleteExpiredSessions(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	count := 0
	for k, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

// CalendarStorage

func (f *fakeStorage) CreateCalendar(_ context.Context, c *Calendar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCalErr != nil {
		return f.createCalErr
	}
	f.nextCalendarID++
	c.ID = f.nextCalendarID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.calendars[c.ID] = c
	return nil
}

func (f *fakeStorage) GetCalendarByID(_ context.Context, id int64) (*Calendar, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if c, ok := f.calendars[id]; ok {
		return c, nil
	}
	return nil, ErrCalendarNotFound
}

func (f *fakeStorage) ListCalendarsByUser(_ context.Context, userID string) ([]*Calendar, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*Calendar
	for _, c := range f.calendars {
		if c.OwnerID == userID || f.shares[c.ID][userID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStorage) CreateCalendarShare(_ context.Context, s *CalendarShare) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shares[s.CalendarID] == nil {
		f.shares[s.CalendarID] = make(map[string]bool)
	}
	f.shares[s.CalendarID][s.UserID] = true
	s.CreatedAt = time.Now()
	return nil
}

func (f *fakeStorage) HasCalendarAccess(_ context.Context, calendarID int64, userID string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.accessErr != nil {
		return false, f.accessErr
	}
	c, ok := f.calendars[calendarID]
	if !ok {
		return false, nil
	}
	return c.OwnerID == userID || f.shares[calendarID][userID], nil
}

// EventStorage

func (f *fakeStorage) CreateEvent(_ context.Context, e *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEventErr != nil {
		return f.createEventErr
	}
	f.nextEventID++
	e.ID = f.nextEventID
	e.CreatedAt = time.Now()
	f.events[e.ID] = e
	return nil
}

func (f *fakeStorage) ListEventsByCalendarAndRange(_ context.Context, calendarID int64, from, to time.Time) ([]*Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	var out []*Event
	for _, e := range f.events {
		if e.CalendarID != calendarID {
			continue
		}
		if e.StartsAt.After(to) || e.EndsAt.Before(from) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
