// Package domain contains persistence models for quiz authoring.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Question is one entry of a quiz. Correct holds the zero-based
// indices of the correct options.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct []int    `json:"correct"`
}

// Quiz belongs to exactly one company. Frequency is the retake
// interval in days used by the reminder sweep.
type Quiz struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Frequency   int          `gorm:"not null" json:"frequency"`
	Questions   []Question   `gorm:"type:jsonb;serializer:json;not null" json:"questions"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Quiz) TableName() string { return "quizzes" }
