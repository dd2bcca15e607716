package users

import (
	"context"

	"foodgram/internal/domain"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type SubscriptionRepositoryInterface interface {
	Add(ctx context.Context, userID, authorID int64) error
	Remove(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error)
	FilterFollowed(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

// RecipePreviewer supplies the recipe previews shown in subscription
// listings.
type RecipePreviewer interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}
