package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var ErrNotificationNotFound = errors.New("notification_not_found")

type Service interface {
	Notify(ctx context.Context, userID snowflake.ID, text string) error
	NotifyAll(ctx context.Context, userIDs []snowflake.ID, text string) error
	ListOwn(ctx context.Context, actorID snowflake.ID, page pagination.Page) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, actorID snowflake.ID, id string) (*NotificationResponse, error)
	MarkUnread(ctx context.Context, actorID snowflake.ID, id string) (*NotificationResponse, error)
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
