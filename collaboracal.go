package collaboracal

import (
	"log/slog"
	"time"

	"github.com/LeanHydra84/CollaboraCal/core"
	"github.com/LeanHydra84/CollaboraCal/pkg/cache"
	"github.com/LeanHydra84/CollaboraCal/pkg/crypto"
)

// interfaces
type (
	Storage     = core.Storage
	Cache       = core.Cache
	HTTPAdapter = core.HTTPAdapter

	AuthHandler     = core.AuthHandler
	CalendarHandler = core.CalendarHandler

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	App           = core.App
	Config        = core.Config
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
)

type (
	User          = core.User
	Session       = core.Session
	SessionData   = core.SessionData
	Calendar      = core.Calendar
	Event         = core.Event
	CalendarShare = core.CalendarShare
	CacheStats    = core.CacheStats

	SignUpInput   = core.SignUpInput
	SignUpResult  = core.SignUpResult
	SignInInput   = core.SignInInput
	SignInResult  = core.SignInResult
	CalendarInput = core.CalendarInput
	EventInput    = core.EventInput
)

const (
	defaultBasePath     = "/api"
	defaultStoreTimeout = 5 * time.Second
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	DefaultSessionConfig = core.DefaultSessionConfig
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrUnauthorized       = core.ErrUnauthorized
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
	ErrSessionNotFound   = core.ErrSessionNotFound
	ErrSessionExpired    = core.ErrSessionExpired
	ErrCacheMiss         = core.ErrCacheMiss
)

var (
	ErrEmailRequired     = core.ErrEmailRequired
	ErrPasswordRequired  = core.ErrPasswordRequired
	ErrWeakPassword      = core.ErrWeakPassword
	ErrPasswordMismatch  = core.ErrPasswordMismatch
	ErrNameRequired      = core.ErrNameRequired
	ErrInvalidEventRange = core.ErrInvalidEventRange
	ErrCalendarNotFound  = core.ErrCalendarNotFound
)

var (
	ErrStoreUnavailable = core.ErrStoreUnavailable
	ErrStoreTimeout     = core.ErrStoreTimeout
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

// New wires the services against the supplied adapters. All cross-component
// references are explicit; nothing global survives this call.
func New(config Config) (*App, error) {
	if config.Database == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = cache.NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := core.DefaultSessionConfig()
		sessionConfig = &defaults
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	storeTimeout := config.StoreTimeout
	if storeTimeout == 0 {
		storeTimeout = defaultStoreTimeout
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := core.NewSessionManager(
		*sessionConfig,
		config.Database,
		cacheAdapter,
		passwordHasher,
		logger,
		storeTimeout,
	)

	validator := core.NewCredentialValidator(config.Database)

	accounts := core.NewAccountService(config.Database, validator, passwordHasher, sessions, logger, storeTimeout)
	calendars := core.NewCalendarService(config.Database, sessions, logger, storeTimeout)

	app := &App{
		Sessions:  sessions,
		Accounts:  accounts,
		Calendars: calendars,
		BasePath:  basePath,
	}

	if err := config.HTTP.RegisterRoutes(accounts, calendars, basePath); err != nil {
		return nil, err
	}

	return app, nil
}
