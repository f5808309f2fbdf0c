package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Denish004/banking-system/internal/models"
	"github.com/Denish004/banking-system/internal/utils"
)

// Login verifies the credentials and, on success, mints a fresh opaque
// access token and stores it as the user's only valid token. Any previous
// token stops working at that point (single active session).
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, string, error) {
	user, err := s.store.FindUserByLogin(ctx, usernameOrEmail)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := utils.NewAccessToken()
	if err := s.store.SetAccessToken(ctx, user.ID, token); err != nil {
		return nil, "", fmt.Errorf("failed to persist access token: %w", err)
	}
	user.AccessToken = &token

	s.log.Infof("User logged in: %s", user.Username)
	return user, token, nil
}

// Authenticate resolves an opaque bearer token to its user by exact match.
// An empty or unknown token yields ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.FindUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// AuthorizeAccountAccess checks that user may act on the account: bankers
// may act on any account, customers only on their own. Returns the account
// so callers do not have to fetch it twice.
func (s *Service) AuthorizeAccountAccess(ctx context.Context, user *models.User, accountID int64) (*models.Account, error) {
	account, err := s.store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if user.Role != models.RoleBanker && account.UserID != user.ID {
		return nil, ErrForbidden
	}
	return account, nil
}

// AuthorizeRole requires an exact role match. Bankers do not inherit
// customer-only views, nor the other way round.
func (s *Service) AuthorizeRole(user *models.User, required models.Role) error {
	if user.Role != required {
		return ErrForbidden
	}
	return nil
}
