package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LessonKindVideo       = "video"
	LessonKindReading     = "reading"
	LessonKindQuiz        = "quiz"
	LessonKindAssignment  = "assignment"
	LessonKindLiveSession = "live_session"
	LessonKindDownload    = "download"
)

// ValidLessonKind reports whether kind is one of the supported lesson kinds.
func ValidLessonKind(kind string) bool {
	switch kind {
	case LessonKindVideo, LessonKindReading, LessonKindQuiz,
		LessonKindAssignment, LessonKindLiveSession, LessonKindDownload:
		return true
	default:
		return false
	}
}

type Lesson struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module          *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Kind            string         `gorm:"column:kind;not null" json:"kind"`
	Content         string         `gorm:"column:content;type:text" json:"content,omitempty"`
	ContentURL      string         `gorm:"column:content_url" json:"content_url,omitempty"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	DisplayOrder    int            `gorm:"column:display_order;not null" json:"display_order"`
	IsPreview       bool           `gorm:"column:is_preview;not null;default:false" json:"is_preview"`
	IsMandatory     bool           `gorm:"column:is_mandatory;not null;default:true" json:"is_mandatory"`
	Points          int            `gorm:"column:points;not null;default:0" json:"points"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
