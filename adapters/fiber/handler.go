package fiber

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

// signUp handles user registration.
func (a *Adapter) signUp(c fiber.Ctx) error {
	var input collaboracal.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.auth.SignUp(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// signIn handles authentication.
func (a *Adapter) signIn(c fiber.Ctx) error {
	var input collaboracal.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.auth.SignIn(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

// signOut revokes the presented session token.
func (a *Adapter) signOut(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return unauthorized(c, collaboracal.ErrMissingAuthHeader)
	}

	if err := a.auth.SignOut(c.Context(), token); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "signed out successfully",
	})
}

// session returns the session data behind the presented token.
func (a *Adapter) session(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return unauthorized(c, collaboracal.ErrMissingAuthHeader)
	}

	session, err := a.auth.GetSession(c.Context(), token)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(session)
}

// changeName updates the authenticated user's display name.
func (a *Adapter) changeName(c fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := a.auth.ChangeName(c.Context(), input.Email, extractToken(c), input.Name); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "name updated",
	})
}

// createCalendar creates a calendar owned by the authenticated user.
func (a *Adapter) createCalendar(c fiber.Ctx) error {
	var input struct {
		Email       string `json:"email"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	calendar, err := a.calendars.CreateCalendar(c.Context(), input.Email, extractToken(c), collaboracal.CalendarInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(calendar)
}

// listCalendars returns the calendars visible to the authenticated user.
func (a *Adapter) listCalendars(c fiber.Ctx) error {
	email := c.Query("email")

	calendars, err := a.calendars.ListCalendars(c.Context(), email, extractToken(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(calendars)
}

// shareCalendar grants a collaborator access to a calendar.
func (a *Adapter) shareCalendar(c fiber.Ctx) error {
	calendarID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid calendar id")
	}

	var input struct {
		Email             string `json:"email"`
		CollaboratorEmail string `json:"collaboratorEmail"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := a.calendars.ShareCalendar(c.Context(), input.Email, extractToken(c), calendarID, input.CollaboratorEmail); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "calendar shared",
	})
}

// createEvent creates an event under a calendar.
func (a *Adapter) createEvent(c fiber.Ctx) error {
	calendarID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid calendar id")
	}

	var input struct {
		Email       string    `json:"email"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"startsAt"`
		EndsAt      time.Time `json:"endsAt"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	event, err := a.calendars.CreateEvent(c.Context(), input.Email, extractToken(c), collaboracal.EventInput{
		CalendarID:  calendarID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(event)
}

// listEvents returns events of a calendar within the from/to query range.
func (a *Adapter) listEvents(c fiber.Ctx) error {
	calendarID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid calendar id")
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return badRequest(c, "invalid 'from' timestamp, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return badRequest(c, "invalid 'to' timestamp, expected RFC 3339")
	}

	events, err := a.calendars.ListEvents(c.Context(), c.Query("email"), extractToken(c), calendarID, from, to)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(events)
}

// extractToken extracts the authentication token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies("auth_token")
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(map[string]string{
		"error": msg,
	})
}

func unauthorized(c fiber.Ctx, err error) error {
	return c.Status(http.StatusUnauthorized).JSON(map[string]string{
		"error": err.Error(),
	})
}

// handleServiceError maps service errors to appropriate HTTP responses.
func handleServiceError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(map[string]string{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps error kinds to HTTP status codes.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, collaboracal.ErrInvalidCredentials),
		errors.Is(err, collaboracal.ErrUnauthorized),
		errors.Is(err, collaboracal.ErrInvalidToken),
		errors.Is(err, collaboracal.ErrSessionNotFound),
		errors.Is(err, collaboracal.ErrSessionExpired),
		errors.Is(err, collaboracal.ErrMissingAuthHeader):
		return http.StatusUnauthorized

	case errors.Is(err, collaboracal.ErrEmailRequired),
		errors.Is(err, collaboracal.ErrPasswordRequired),
		errors.Is(err, collaboracal.ErrWeakPassword),
		errors.Is(err, collaboracal.ErrPasswordMismatch),
		errors.Is(err, collaboracal.ErrNameRequired),
		errors.Is(err, collaboracal.ErrInvalidEventRange):
		return http.StatusBadRequest

	case errors.Is(err, collaboracal.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, collaboracal.ErrUserNotFound),
		errors.Is(err, collaboracal.ErrCalendarNotFound):
		return http.StatusNotFound

	case errors.Is(err, collaboracal.ErrStoreUnavailable),
		errors.Is(err, collaboracal.ErrStoreTimeout):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
