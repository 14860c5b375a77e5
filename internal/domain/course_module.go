package domain

import (
	"time"

	"github.com/google/uuid"
)

// CourseModule is an ordered section within a course. DisplayOrder is a
// 1-based contiguous rank among the siblings of one course; the catalog
// service re-packs it after every mutation. Deletes are hard deletes so a
// removed module never leaves orphaned lessons behind.
type CourseModule struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course          *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	DisplayOrder    int       `gorm:"column:display_order;not null" json:"display_order"`
	IsPublished     bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_module" }
