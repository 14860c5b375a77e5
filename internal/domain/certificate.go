package domain

import (
	"time"

	"github.com/google/uuid"
)

// Certificate proves completion of one enrollment. The unique index on
// EnrollmentID is the arbiter for concurrent issuance; at most one row can
// ever exist per enrollment. Rows are never deleted, only the Verified flag
// toggles.
type Certificate struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EnrollmentID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"enrollment_id"`
	Enrollment   *Enrollment `gorm:"foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	Code         string      `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Verified     bool        `gorm:"column:verified;not null;default:false" json:"verified"`
	IssuedAt     time.Time   `gorm:"column:issued_at;not null;default:now()" json:"issued_at"`
	CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Certificate) TableName() string { return "certificate" }
