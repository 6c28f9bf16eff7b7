package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session_not_found")

type SessionRepository interface {
	WithTx(tx *gorm.DB) SessionRepository
	Create(ctx context.Context, session Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	UpdateLastSeen(ctx context.Context, id snowflake.ID, seenAt time.Time) error
	Revoke(ctx context.Context, id snowflake.ID, revokedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) error
}
