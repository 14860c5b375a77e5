package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ResourceKindUpload   = "upload"
	ResourceKindExternal = "external"
)

// LessonResource is an attachment owned by a lesson: an uploaded file path or
// an external URL. DownloadCount only ever grows.
type LessonResource struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID      uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson        *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Kind          string    `gorm:"column:kind;not null;default:'upload'" json:"kind"`
	Location      string    `gorm:"column:location;not null" json:"location"`
	DownloadCount int64     `gorm:"column:download_count;not null;default:0" json:"download_count"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (LessonResource) TableName() string { return "lesson_resource" }
