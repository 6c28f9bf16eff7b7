// Package domain defines auth sessions and the authentication service
// contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Session is one logged-in browser or client. Only a hash of the
// session token is stored.
type Session struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID `gorm:"not null;index" json:"user_id"`
	TokenHash  string       `gorm:"type:text;not null;uniqueIndex:ux_sessions_token_hash" json:"-"`
	UserAgent  string       `gorm:"type:text" json:"user_agent"`
	IPAddress  string       `gorm:"type:text" json:"ip_address"`
	ExpiresAt  time.Time    `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastSeenAt time.Time    `gorm:"not null" json:"last_seen_at"`
	RevokedAt  *time.Time   `json:"revoked_at,omitempty"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Active reports whether the session can still authenticate requests.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
