package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeanHydra84/CollaboraCal/pkg/crypto"
)

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignUpResult contains the newly created user and their first session
type SignUpResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw token (not the hash)
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResult contains the authenticated user and their session
type SignInResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw token (not the hash)
}

// AccountService orchestrates user registration and profile mutation.
type AccountService struct {
	storage      Storage
	validator    *CredentialValidator
	passwords    crypto.PasswordHandler
	sessions     *SessionManager
	logger       *slog.Logger
	storeTimeout time.Duration
}

// Ensure AccountService implements AuthHandler
var _ AuthHandler = (*AccountService)(nil)

func NewAccountService(storage Storage, validator *CredentialValidator, passwords crypto.PasswordHandler, sessions *SessionManager, logger *slog.Logger, storeTimeout time.Duration) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		storage:      storage,
		validator:    validator,
		passwords:    passwords,
		sessions:     sessions,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// SignUp registers a new user with email and password.
//
// The validator's uniqueness check is only an early exit; the store's unique
// constraint on email is what decides concurrent registrations for the same
// address, surfacing as ErrUserExists.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput, ipAddress, userAgent string) (*SignUpResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.validator.Validate(ctx, input.Email, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := NewUser(input.Email, input.Name, hashedPassword)
	if err != nil {
		return nil, err
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, mapStoreErr(err)
	}

	sessionResult, err := s.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "userId", user.ID)

	return &SignUpResult{
		User:    user,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// SignIn authenticates a user with email and password.
func (s *AccountService) SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*SignInResult, error) {
	result, err := s.sessions.Login(ctx, input.Email, input.Password, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		User:    result.User,
		Session: result.Session,
		Token:   result.Token,
	}, nil
}

// SignOut invalidates the current session.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// GetSession retrieves session data by token.
func (s *AccountService) GetSession(ctx context.Context, token string) (*SessionData, error) {
	session, err := s.sessions.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	user, err := s.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return &SessionData{
		User:    user,
		Session: session,
	}, nil
}

// ChangeName overwrites the user's display name. The (email, token) pair must
// pass the authorization gate first; no mutation happens otherwise. Names
// carry no uniqueness constraint.
func (s *AccountService) ChangeName(ctx context.Context, email, token, newName string) error {
	if newName == "" {
		return ErrNameRequired
	}

	user, err := s.sessions.Authorize(ctx, email, token)
	if err != nil {
		return err
	}

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	user.Name = newName
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *AccountService) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
