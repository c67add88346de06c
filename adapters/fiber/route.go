package fiber

import (
	"github.com/gofiber/fiber/v3"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

type Adapter struct {
	app       *fiber.App
	auth      collaboracal.AuthHandler
	calendars collaboracal.CalendarHandler
}

var _ collaboracal.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(auth collaboracal.AuthHandler, calendars collaboracal.CalendarHandler, basePath string) error {
	a.auth = auth
	a.calendars = calendars

	api := a.app.Group(basePath)

	// Public routes
	authGroup := api.Group("/auth")
	authGroup.Post("/sign-up", a.signUp)
	authGroup.Post("/sign-in", a.signIn)

	// Protected routes
	authGroup.Post("/sign-out", a.requireAuth, a.signOut)
	authGroup.Get("/session", a.requireAuth, a.session)
	authGroup.Patch("/name", a.requireAuth, a.changeName)

	calGroup := api.Group("/calendars", a.requireAuth)
	calGroup.Post("/", a.createCalendar)
	calGroup.Get("/", a.listCalendars)
	calGroup.Post("/:id/share", a.shareCalendar)
	calGroup.Post("/:id/events", a.createEvent)
	calGroup.Get("/:id/events", a.listEvents)

	return nil
}
