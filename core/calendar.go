package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// CalendarInput is the payload for calendar creation.
type CalendarInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EventInput is the payload for event creation.
type EventInput struct {
	CalendarID  int64     `json:"calendarId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
}

// CalendarService creates and lists calendars and events on behalf of an
// authenticated identity. Every operation resolves the (email, token) pair
// through the authorization gate before reading or writing anything.
type CalendarService struct {
	storage      Storage
	sessions     *SessionManager
	logger       *slog.Logger
	storeTimeout time.Duration
}

// Ensure CalendarService implements CalendarHandler
var _ CalendarHandler = (*CalendarService)(nil)

func NewCalendarService(storage Storage, sessions *SessionManager, logger *slog.Logger, storeTimeout time.Duration) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		storage:      storage,
		sessions:     sessions,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// CreateCalendar persists a new calendar owned by the authenticated user.
func (s *CalendarService) CreateCalendar(ctx context.Context, email, token string, input CalendarInput) (*Calendar, error) {
	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	calendar := &Calendar{
		OwnerID:     user.ID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := s.storage.CreateCalendar(ctx, calendar); err != nil {
		return nil, mapStoreErr(err)
	}

	return calendar, nil
}

// ListCalendars returns the calendars the authenticated user owns or has
// been granted access to.
func (s *CalendarService) ListCalendars(ctx context.Context, email, token string) ([]*Calendar, error) {
	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	calendars, err := s.storage.ListCalendarsByUser(ctx, user.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return calendars, nil
}

// ShareCalendar grants a collaborator access to one of the caller's
// calendars. Only the owner may share; a calendar the caller cannot see is
// reported as not found.
func (s *CalendarService) ShareCalendar(ctx context.Context, email, token string, calendarID int64, collaboratorEmail string) error {
	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return err
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	calendar, err := s.storage.GetCalendarByID(ctx, calendarID)
	if err != nil {
		return mapStoreErr(err)
	}
	if calendar.OwnerID != user.ID {
		return ErrCalendarNotFound
	}

	collaborator, err := s.storage.GetUserByEmail(ctx, collaboratorEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return mapStoreErr(err)
	}

	share := &CalendarShare{
		CalendarID: calendar.ID,
		UserID:     collaborator.ID,
	}
	if err := s.storage.CreateCalendarShare(ctx, share); err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info("calendar shared", "calendarId", calendar.ID, "collaboratorId", collaborator.ID)
	return nil
}

// CreateEvent persists a new event under the referenced calendar. The
// calendar must exist and be owned by or shared with the authenticated user.
func (s *CalendarService) CreateEvent(ctx context.Context, email, token string, input EventInput) (*Event, error) {
	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrNameRequired
	}
	if input.EndsAt.Before(input.StartsAt) {
		return nil, ErrInvalidEventRange
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.requireCalendarAccess(ctx, input.CalendarID, user.ID); err != nil {
		return nil, err
	}

	event := &Event{
		CalendarID:  input.CalendarID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}

	if err := s.storage.CreateEvent(ctx, event); err != nil {
		return nil, mapStoreErr(err)
	}

	return event, nil
}

// ListEvents returns the events of a calendar within [from, to].
func (s *CalendarService) ListEvents(ctx context.Context, email, token string, calendarID int64, from, to time.Time) ([]*Event, error) {
	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.requireCalendarAccess(ctx, calendarID, user.ID); err != nil {
		return nil, err
	}

	events, err := s.storage.ListEventsByCalendarAndRange(ctx, calendarID, from, to)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return events, nil
}

// requireCalendarAccess verifies the calendar exists and the user owns it or
// holds a share. Inaccessible and nonexistent calendars are indistinguishable
// to the caller.
func (s *CalendarService) requireCalendarAccess(ctx context.Context, calendarID int64, userID string) error {
	ok, err := s.storage.HasCalendarAccess(ctx, calendarID, userID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !ok {
		return ErrCalendarNotFound
	}
	return nil
}

func (s *CalendarService) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
