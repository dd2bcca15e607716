package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Add(ctx context.Context, userID, authorID int64) error {
	sub := &domain.Subscription{UserID: userID, AuthorID: authorID}
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *SubscriptionRepository) Remove(ctx context.Context, userID, authorID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListAuthors returns the users the given user follows, oldest follow first,
// with the total for pagination.
func (r *SubscriptionRepository) ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var authors []domain.User
	if err := query.Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// FilterFollowed returns which of the given author ids the user follows.
func (r *SubscriptionRepository) FilterFollowed(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	followed := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
