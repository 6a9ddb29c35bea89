package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID      uuid.UUID `gorm:"not null" json:"student_id"`
	MentorID       uuid.UUID `gorm:"not null" json:"mentor_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	SessionsCount  int       `gorm:"not null" json:"sessions_count"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificate_url"`

	Student User `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Mentor  User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
}
