// Package domain contains the membership state machine models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the state of the link between a user and a company.
// Absence of a row is the implicit "none" state.
type Status string

const (
	StatusInvited   Status = "INVITED"
	StatusRequested Status = "REQUESTED"
	StatusDeclined  Status = "DECLINED"
	StatusRejected  Status = "REJECTED"
	StatusMember    Status = "MEMBER"
	StatusAdmin     Status = "ADMIN"
)

// Membership links one user to one company. The unique index on
// (company_id, user_id) enforces the at-most-one-row invariant even
// under concurrent invites or requests.
type Membership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_company_user,priority:1" json:"company_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_company_user,priority:2" json:"user_id"`
	Status    Status       `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }

// IsActiveMember reports whether the row grants regular member access.
// Admins count as members for quiz-taking purposes.
func (m *Membership) IsActiveMember() bool {
	if m == nil {
		return false
	}
	return m.Status == StatusMember || m.Status == StatusAdmin
}
