package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeanHydra84/CollaboraCal/pkg/crypto"
)

type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// SessionManager issues and validates opaque session tokens. It is the
// authorization gate: every mutating service call resolves its (email, token)
// pair through Authorize before touching shared state.
type SessionManager struct {
	config       SessionConfig
	storage      Storage
	cache        Cache
	passwords    crypto.PasswordHandler
	logger       *slog.Logger
	storeTimeout time.Duration
}

type CreateSessionResult struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

// LoginResult bundles the authenticated user with their fresh session.
type LoginResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw token (not the hash)
}

func NewSessionManager(config SessionConfig, storage Storage, cache Cache, passwords crypto.PasswordHandler, logger *slog.Logger, storeTimeout time.Duration) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		config:       config,
		storage:      storage,
		cache:        cache,
		passwords:    passwords,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Login verifies email/password against the store and, on success, mints a
// new session. Every failure mode collapses to ErrInvalidCredentials so a
// caller cannot distinguish an unknown email from a wrong password.
func (sm *SessionManager) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*LoginResult, error) {
	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	user, err := sm.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, mapStoreErr(err)
	}

	valid, err := sm.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	result, err := sm.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:    user,
		Session: result.Session,
		Token:   result.Token,
	}, nil
}

// Create mints a session for an already-authenticated user. Concurrent
// sessions for the same user are allowed; issuance never invalidates prior
// tokens.
func (sm *SessionManager) Create(ctx context.Context, userID, ipAddress, userAgent string) (*CreateSessionResult, error) {
	token, err := crypto.GenerateHashedToken(crypto.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	id, err := crypto.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		UserID:    userID,
		TokenHash: token.Hash,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(sm.config.MaxAge),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, mapStoreErr(err)
	}

	return &CreateSessionResult{
		Session: session,
		Token:   token.Token,
	}, nil
}

// Verify resolves a raw token to its live session. Expired sessions are
// deleted on sight and reported as expired.
func (sm *SessionManager) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		if session, err := sm.cache.Get(ctx, tokenHash); err == nil && session != nil {
			if !session.Expired(time.Now()) {
				return session, nil
			}
			sm.cache.Delete(ctx, tokenHash)
		}
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, mapStoreErr(err)
	}

	valid, err := crypto.VerifyToken(token, session.TokenHash)
	if err != nil || !valid {
		return nil, ErrInvalidToken
	}

	if session.Expired(time.Now()) {
		if err := sm.storage.DeleteSessionByID(ctx, session.ID); err != nil {
			sm.logger.Warn("failed to delete expired session", "sessionId", session.ID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	if sm.cache != nil {
		if err := sm.cache.Set(ctx, tokenHash, session); err != nil {
			sm.logger.Warn("failed to cache session", "error", err)
		}
	}

	return session, nil
}

// Authorize is the gate in front of every authenticated operation. It
// succeeds only when token resolves to a live session whose owner's email
// equals the claimed email. All failures surface as ErrUnauthorized with no
// further detail.
func (sm *SessionManager) Authorize(ctx context.Context, email, token string) (*User, error) {
	session, err := sm.Verify(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	user, err := sm.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(user.Email), []byte(email)) != 1 {
		return nil, ErrUnauthorized
	}

	return user, nil
}

// Destroy revokes the session behind a raw token (explicit logout).
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		sm.cache.Delete(ctx, tokenHash)
	}

	if err := sm.storage.DeleteSessionByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return mapStoreErr(err)
	}
	return nil
}

// DestroyAllUserSessions revokes every session owned by a user.
func (sm *SessionManager) DestroyAllUserSessions(ctx context.Context, userID string) (int, error) {
	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	if sm.cache != nil {
		sm.cache.Clear(ctx)
	}

	n, err := sm.storage.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return n, nil
}

// DeleteExpired sweeps sessions whose lifetime has elapsed. Intended to run
// periodically from the host process.
func (sm *SessionManager) DeleteExpired(ctx context.Context) (int, error) {
	ctx, cancel := sm.boundCtx(ctx)
	defer cancel()

	n, err := sm.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, mapStoreErr(err)
	}
	if n > 0 {
		sm.logger.Info("deleted expired sessions", "count", n)
	}
	return n, nil
}

func (sm *SessionManager) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if sm.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, sm.storeTimeout)
}

// mapStoreErr converts unexpected persistence failures into the generic
// store error kinds. Domain sentinels pass through untouched.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrCalendarNotFound):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ErrStoreTimeout
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
