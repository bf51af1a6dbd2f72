package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/evhartley/fiction-passport/internal/dependencies/clock"
	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/session"
	"github.com/evhartley/fiction-passport/internal/storage"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// Service handles registration, login and session management
type Service struct {
	storage  storage.Storage
	sessions session.Store
	clock    clock.Clock
	logger   *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 7 * 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, sessions session.Store, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		sessions:        sessions,
		clock:           clk,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates a user account and opens a session for it.
// The username is normalized to lowercase; uniqueness is case-insensitive.
func (s *Service) Register(ctx context.Context, username, password string) (*session.Session, error) {
	username = model.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}
	if len(password) < MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// The UNIQUE constraint is the arbiter of duplicates; checking first
	// would race with a concurrent registration.
	user, err := s.storage.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("username", username))

	return s.createSession(ctx, user)
}

// Login authenticates a user and opens a session. Unknown usernames and
// wrong passwords are deliberately indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, error) {
	username = model.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// Logout removes the session unconditionally; an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) {
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to delete session", slog.String("error", err.Error()))
	}
}

// UserForToken resolves a session token to its user
func (s *Service) UserForToken(ctx context.Context, token string) (*model.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.clock.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, model.ErrInvalidSession
	}

	user, err := s.storage.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// createSession opens a new session for a user
func (s *Service) createSession(ctx context.Context, user *model.User) (*session.Session, error) {
	now := s.clock.Now()

	sess := &session.Session{
		Token:     generateToken(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return sess, nil
}

// generateToken generates an opaque random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
