// Package repository persists auth sessions with gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/auth/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.SessionRepository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.SessionRepository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, session domain.Session) error {
	return r.db.WithContext(ctx).Create(&session).Error
}

func (r *repository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *repository) UpdateLastSeen(ctx context.Context, id snowflake.ID, seenAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("last_seen_at", seenAt).Error
}

func (r *repository) Revoke(ctx context.Context, id snowflake.ID, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("revoked_at", revokedAt).Error
}

func (r *repository) DeleteExpired(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.Session{}).Error
}
