// Package domain contains persistence models for notifications.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusUnread Status = "UNREAD"
	StatusRead   Status = "READ"
)

// Notification is a user-directed message.
type Notification struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	Status    Status       `gorm:"type:text;not null;default:'UNREAD'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
