// Package domain contains persistence models for the company service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is a tenant. The owner is fixed at creation and does not
// transfer.
type Company struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_companies_name" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	OwnerID     snowflake.ID `gorm:"not null;index" json:"owner_id"`
	IsPublic    bool         `gorm:"not null;default:true" json:"is_public"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
