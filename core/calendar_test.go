package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type calendarTestEnv struct {
	storage   *fakeStorage
	accounts  *AccountService
	calendars *CalendarService
}

func newCalendarTestEnv(t *testing.T) *calendarTestEnv {
	t.Helper()
	storage := newFakeStorage()
	accounts, sessions := newTestAccountService(storage)
	return &calendarTestEnv{
		storage:   storage,
		accounts:  accounts,
		calendars: NewCalendarService(storage, sessions, nil, 0),
	}
}

func (e *calendarTestEnv) signUp(t *testing.T, email, name string) *SignUpResult {
	t.Helper()
	result, err := e.accounts.SignUp(context.Background(), SignUpInput{
		Email: email, Name: name, Password: "Passw0rd", ConfirmPassword: "Passw0rd",
	}, "", "")
	if err != nil {
		t.Fatalf("SignUp(%q) error = %v", email, err)
	}
	return result
}

// Requirement: the full registration-to-calendar scenario. Register, reject
// the duplicate, log in, validate, create a calendar with id > 0, and refuse
// a bogus token without persisting anything.
func TestCalendarScenario(t *testing.T) {
	// Arrange
	env := newCalendarTestEnv(t)
	ctx := context.Background()

	if _, err := env.accounts.SignUp(ctx, SignUpInput{
		Email: "alice@x.com", Name: "Alice", Password: "Passw0rd", ConfirmPassword: "Passw0rd",
	}, "", ""); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := env.accounts.SignUp(ctx, SignUpInput{
		Email: "alice@x.com", Name: "Alice", Password: "Passw0rd", ConfirmPassword: "Passw0rd",
	}, "", ""); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate SignUp() error = %v, want ErrUserExists", err)
	}

	login, err := env.accounts.SignIn(ctx, SignInInput{Email: "alice@x.com", Password: "Passw0rd"}, "", "")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	// Act
	calendar, err := env.calendars.CreateCalendar(ctx, "alice@x.com", login.Token, CalendarInput{Name: "Work"})

	// Assert
	if err != nil {
		t.Fatalf("CreateCalendar() error = %v", err)
	}
	if calendar.ID <= 0 {
		t.Errorf("calendar id = %d, want > 0", calendar.ID)
	}

	if _, err := env.calendars.CreateCalendar(ctx, "alice@x.com", "bogus-token", CalendarInput{Name: "Evil"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("CreateCalendar() with bogus token = %v, want ErrUnauthorized", err)
	}
	if len(env.storage.calendars) != 1 {
		t.Errorf("storage holds %d calendars, want 1 (bogus token must not persist)", len(env.storage.calendars))
	}
}

// Requirement: a valid token for user A never works with another email.
func TestCalendarService_CrossIdentityRejected(t *testing.T) {
	// Arrange
	env := newCalendarTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@x.com", "Alice")
	env.signUp(t, "bob@x.com", "Bob")

	// Act & Assert
	if _, err := env.calendars.CreateCalendar(ctx, "bob@x.com", alice.Token, CalendarInput{Name: "Sneaky"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("CreateCalendar() = %v, want ErrUnauthorized", err)
	}
	if _, err := env.calendars.ListCalendars(ctx, "bob@x.com", alice.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListCalendars() = %v, want ErrUnauthorized", err)
	}
	if len(env.storage.calendars) != 0 {
		t.Error("nothing should be persisted")
	}
}

// Requirement: events require an existing calendar owned by (or shared with)
// the caller; a foreign calendar is indistinguishable from a missing one.
func TestCalendarService_CreateEvent_Ownership(t *testing.T) {
	// Arrange
	env := newCalendarTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@x.com", "Alice")
	bob := env.signUp(t, "bob@x.com", "Bob")

	calendar, err := env.calendars.CreateCalendar(ctx, "alice@x.com", alice.Token, CalendarInput{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateCalendar() error = %v", err)
	}

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	input := EventInput{CalendarID: calendar.ID, Title: "Standup", StartsAt: start, EndsAt: start.Add(30 * time.Minute)}

	tests := []struct {
		name    string
		email   string
		token   string
		input   EventInput
		wantErr error
	}{
		{name: "owner creates event", email: "alice@x.com", token: alice.Token, input: input, wantErr: nil},
		{name: "non-owner rejected", email: "bob@x.com", token: bob.Token, input: input, wantErr: ErrCalendarNotFound},
		{name: "missing calendar", email: "alice@x.com", token: alice.Token,
			input: EventInput{CalendarID: 999, Title: "Ghost", StartsAt: start, EndsAt: start.Add(time.Hour)}, wantErr: ErrCalendarNotFound},
		{name: "end before start", email: "alice@x.com", token: alice.Token,
			input: EventInput{CalendarID: calendar.ID, Title: "Backwards", StartsAt: start, EndsAt: start.Add(-time.Hour)}, wantErr: ErrInvalidEventRange},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			event, err := env.calendars.CreateEvent(ctx, test.email, test.token, test.input)

			// Assert
			if !errors.Is(err, test.wantErr) && !(err == nil && test.wantErr == nil) {
				t.Errorf("CreateEvent() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr == nil {
				if event == nil || event.ID <= 0 {
					t.Error("CreateEvent() should return a persisted event with id > 0")
				}
			}
		})
	}
}

// Requirement: sharing grants a collaborator event access and listing; only
// the owner may share.
func TestCalendarService_ShareCalendar(t *testing.T) {
	// Arrange
	env := newCalendarTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@x.com", "Alice")
	bob := env.signUp(t, "bob@x.com", "Bob")

	calendar, err := env.calendars.CreateCalendar(ctx, "alice@x.com", alice.Token, CalendarInput{Name: "Team"})
	if err != nil {
		t.Fatalf("CreateCalendar() error = %v", err)
	}

	// Non-owner cannot share someone else's calendar.
	if err := env.calendars.ShareCalendar(ctx, "bob@x.com", bob.Token, calendar.ID, "bob@x.com"); !errors.Is(err, ErrCalendarNotFound) {
		t.Fatalf("non-owner ShareCalendar() = %v, want ErrCalendarNotFound", err)
	}

	// Act
	if err := env.calendars.ShareCalendar(ctx, "alice@x.com", alice.Token, calendar.ID, "bob@x.com"); err != nil {
		t.Fatalf("ShareCalendar() error = %v", err)
	}

	// Assert: bob now sees the calendar and can add events to it.
	calendars, err := env.calendars.ListCalendars(ctx, "bob@x.com", bob.Token)
	if err != nil {
		t.Fatalf("ListCalendars() error = %v", err)
	}
	if len(calendars) != 1 || calendars[0].ID != calendar.ID {
		t.Errorf("bob should see the shared calendar, got %+v", calendars)
	}

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if _, err := env.calendars.CreateEvent(ctx, "bob@x.com", bob.Token, EventInput{
		CalendarID: calendar.ID, Title: "Sync", StartsAt: start, EndsAt: start.Add(time.Hour),
	}); err != nil {
		t.Errorf("collaborator CreateEvent() error = %v", err)
	}

	// Sharing with an unknown user is reported distinctly; the caller already
	// proved ownership, so this is no information leak.
	if err := env.calendars.ShareCalendar(ctx, "alice@x.com", alice.Token, calendar.ID, "nobody@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ShareCalendar() unknown collaborator = %v, want ErrUserNotFound", err)
	}
}

// Requirement: retrieval is gated and range-filtered.
func TestCalendarService_ListEvents(t *testing.T) {
	// Arrange
	env := newCalendarTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@x.com", "Alice")

	calendar, err := env.calendars.CreateCalendar(ctx, "alice@x.com", alice.Token, CalendarInput{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateCalendar() error = %v", err)
	}

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Morning", "Noon", "Evening"} {
		start := day.Add(time.Duration(8+4*i) * time.Hour)
		if _, err := env.calendars.CreateEvent(ctx, "alice@x.com", alice.Token, EventInput{
			CalendarID: calendar.ID, Title: title, StartsAt: start, EndsAt: start.Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateEvent(%q) error = %v", title, err)
		}
	}

	// Act: window covering only the noon event.
	events, err := env.calendars.ListEvents(ctx, "alice@x.com", alice.Token, calendar.ID,
		day.Add(11*time.Hour), day.Add(14*time.Hour))

	// Assert
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].Title != "Noon" {
		t.Errorf("ListEvents() = %+v, want only the Noon event", events)
	}

	if _, err := env.calendars.ListEvents(ctx, "alice@x.com", "bogus", calendar.ID, day, day.Add(24*time.Hour)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ListEvents() with bogus token = %v, want ErrUnauthorized", err)
	}
}
