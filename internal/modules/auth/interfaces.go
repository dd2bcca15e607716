package auth

import (
	"context"
	"time"

	"foodgram/internal/domain"
)

type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
