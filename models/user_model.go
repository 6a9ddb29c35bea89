package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	ProfilePicture *string        `gorm:"size:255" json:"profile_picture"`
	Headline       *string        `gorm:"size:255" json:"headline"`
	Bio            *string        `gorm:"type:text" json:"bio"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
	TimeZone       *string        `gorm:"size:64" json:"time_zone"`

	// Mentor-only. HourlyRate is snapshotted onto each booking at creation
	// so a later rate change never reprices past sessions.
	HourlyRate *float64 `gorm:"type:numeric(10,2)" json:"hourly_rate,omitempty"`

	// Cached total from the external karma service. Not authoritative.
	KarmaPoints int `gorm:"not null;default:0" json:"karma_points"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the karma-worthy profile fields are all
// filled in. The karma service is only pinged once this flips to true.
func (u *User) ProfileComplete() bool {
	return u.Bio != nil && *u.Bio != "" &&
		u.TimeZone != nil && *u.TimeZone != "" &&
		u.ProfilePicture != nil && *u.ProfilePicture != "" &&
		len(u.Skills) > 0
}
