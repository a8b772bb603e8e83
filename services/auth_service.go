//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	goerrors "errors"
	"fmt"
	"log/slog"

	"story-chat/auth"
	"story-chat/errors"
	"story-chat/repositories"

	"story-chat/domain"
)

type IAuthService interface {
	Login(username, password string) (Token, domain.Identity, error)
	Identify(token string) (domain.Identity, error)
}

type Token string

// AuthService is the session gate: it maps a login request to an
// identity and a session token, auto-registering unknown usernames.
type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenManager
	log    *slog.Logger
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenManager, log *slog.Logger) IAuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login resolves the username to an account, creating one with the
// supplied password when none exists. Existing accounts are accepted
// without comparing the stored password; the stored value is only
// written once, at registration.
func (s *AuthService) Login(username, password string) (Token, domain.Identity, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username, Password: password}); err != nil {
		return "", domain.Identity{}, err
	}

	user, err := s.users.FindUserByUsername(username)
	switch {
	case goerrors.Is(err, errors.ErrUserNotFound):
		user, err = s.users.CreateUser(username, password)
		if err != nil {
			return "", domain.Identity{}, fmt.Errorf("registering %q: %w", username, err)
		}
		s.log.Info("registered new user", "username", username)
	case err != nil:
		return "", domain.Identity{}, err
	}

	identity := domain.Identity{UserID: user.ID, Username: user.Username}
	token, err := s.tokens.Generate(identity)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token(token), identity, nil
}

// Identify resolves a session token back to the identity it was issued
// for. An invalid or expired token yields ErrUnauthenticated.
func (s *AuthService) Identify(token string) (domain.Identity, error) {
	identity, err := s.tokens.Validate(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	return identity, nil
}
