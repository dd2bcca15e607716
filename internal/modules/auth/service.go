package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"foodgram/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service issues and revokes access tokens.
type Service struct {
	users   UserRepositoryInterface
	jwt     jwtService
	revoked TokenRevoker
}

func NewService(users UserRepositoryInterface, jwt jwtService, revoked TokenRevoker) *Service {
	return &Service{
		users:   users,
		jwt:     jwt,
		revoked: revoked,
	}
}

// Login exchanges email + password for an access token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Active {
		return "", ErrUserBlocked
	}

	return s.jwt.GenerateToken(user.ID, string(user.Role))
}

// Logout blacklists the presented token's JTI. It is best-effort: once the
// caller authenticated, failures are logged and swallowed so the client
// always sees the logout succeed.
func (s *Service) Logout(ctx context.Context, jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	if err := s.revoked.Revoke(ctx, jti, expiresAt); err != nil {
		log.Printf("token_revoke_failed jti=%s error=%q", jti, err)
	}
}
