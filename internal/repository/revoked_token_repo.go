package repository

import (
	"context"
	"time"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RevokedTokenRepository blacklists access-token JTIs on logout. Rows are
// kept only until the token would expire on its own; stale rows are pruned
// on every insert, so no separate cleanup job is needed.
type RevokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&domain.RevokedToken{})

	err := r.db.WithContext(ctx).Create(&domain.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}).Error
	if translate(err) == ErrDuplicate {
		// Revoking twice is a no-op.
		return nil
	}
	return err
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}
