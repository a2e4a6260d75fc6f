// Package auth implements session-based authentication for the back office.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
)

// UserFinder looks up accounts by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	finder UserFinder
}

// NewService constructs a new Service.
func NewService(finder UserFinder) *Service {
	return &Service{finder: finder}
}

// Authenticate validates email/password credentials. Lookup failures and bad
// passwords collapse to the same error so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.finder.GetByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
