package identity

import (
	"auction-house/internal/biddingerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// minSecretLength is the shortest secret accepted at registration
const minSecretLength = 6

// Service registers users and tracks the single current-user session.
// The session is a convenience record, not a security boundary.
type Service struct {
	users    repository.CredentialStore
	sessions repository.SessionStore
	validate *validator.Validate
}

// NewService creates a new identity service
func NewService(users repository.CredentialStore, sessions repository.SessionStore) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		validate: validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with role "user" and logs them in
func (s *Service) Register(ctx context.Context, email, secret string) (models.User, error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return models.User{}, fmt.Errorf("service: %w - %q", biddingerrors.ErrInvalidEmail, email)
	}
	if utf8.RuneCountInString(secret) < minSecretLength {
		return models.User{}, fmt.Errorf("service: %w", biddingerrors.ErrWeakPassword)
	}

	user, err := s.users.Insert(ctx, models.User{
		Email:    email,
		Password: secret,
		Role:     models.RoleUser,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to register %s: %w", email, err)
	}

	if err := s.sessions.Set(ctx, user.Session()); err != nil {
		return models.User{}, fmt.Errorf("service: failed to start session: %w", err)
	}

	utils.Info("user registered", map[string]any{"user_id": user.ID, "email": user.Email})
	return user.Public(), nil
}

// Login verifies the credentials and makes the user current.
// Unknown emails and wrong secrets fail the same way.
func (s *Service) Login(ctx context.Context, email, secret string) (models.User, error) {
	email = normalizeEmail(email)

	user, ok, err := s.users.Verify(ctx, email, secret)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to verify credentials: %w", err)
	}
	if !ok {
		utils.Warn("login rejected", map[string]any{"email": email})
		return models.User{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidCredentials)
	}

	if err := s.sessions.Set(ctx, user.Session()); err != nil {
		return models.User{}, fmt.Errorf("service: failed to start session: %w", err)
	}

	utils.Info("user logged in", map[string]any{"user_id": user.ID, "email": user.Email})
	return user.Public(), nil
}

// Logout clears the current session. Logging out with no session is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service: failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the user of the persisted session, if any
func (s *Service) CurrentUser(ctx context.Context) (models.User, bool, error) {
	session, ok, err := s.sessions.Current(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("service: failed to read session: %w", err)
	}
	if !ok {
		return models.User{}, false, nil
	}
	return models.User{ID: session.ID, Email: session.Email, Role: session.Role}, true, nil
}
