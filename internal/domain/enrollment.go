package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusCancelled = "cancelled"
)

// Enrollment ties a student to a course. Progress is derived from mandatory
// lesson completions; Status reaches "completed" only through that
// recomputation, never through a direct write.
type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollment_user_course,unique" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollment_user_course,unique" json:"course_id"`
	Course      *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status      string     `gorm:"column:status;not null;default:'active';index" json:"status"`
	Progress    int        `gorm:"column:progress;not null;default:0" json:"progress"`
	EnrolledAt  time.Time  `gorm:"column:enrolled_at;not null;default:now()" json:"enrolled_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

// LessonCompletion records one completed lesson for one enrollment. The
// unique pair index makes repeat recordings a no-op at the database level.
type LessonCompletion struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EnrollmentID uuid.UUID   `gorm:"type:uuid;not null;index:idx_completion_enrollment_lesson,unique" json:"enrollment_id"`
	Enrollment   *Enrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	LessonID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_completion_enrollment_lesson,unique" json:"lesson_id"`
	CompletedAt  time.Time   `gorm:"column:completed_at;not null;default:now()" json:"completed_at"`
	CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (LessonCompletion) TableName() string { return "lesson_completion" }
