package core

import (
	"log/slog"
	"time"

	"github.com/LeanHydra84/CollaboraCal/pkg/crypto"
)

type Config struct {
	Database Storage

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter   Cache
	DisableCache   bool
	SessionConfig  *SessionConfig
	PasswordHasher crypto.PasswordHandler
	Logger         *slog.Logger
	StoreTimeout   time.Duration
	BasePath       string
}

// App holds the wired services. Construct it once at process start and pass
// it down explicitly; there is no package-level singleton.
type App struct {
	Sessions  *SessionManager
	Accounts  *AccountService
	Calendars *CalendarService
	BasePath  string
}
