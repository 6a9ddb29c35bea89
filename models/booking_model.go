package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotParticipant = errors.New("user is not part of this booking")
	ErrNotCompleted   = errors.New("only completed sessions can be reviewed")
	ErrNotPending     = errors.New("only pending bookings can be deleted")
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no-show"
	StatusExpired   BookingStatus = "expired"
)

type MeetingStatus string

const (
	MeetingNotStarted MeetingStatus = "not_started"
	MeetingWaiting    MeetingStatus = "waiting"
	MeetingActive     MeetingStatus = "active"
	MeetingEnded      MeetingStatus = "ended"
)

// statusTransitions is the single source of truth for lifecycle moves.
// Cancelled and completed are terminal, and nothing ever goes back to
// pending. No-show and expired keep a narrow correction path so a session
// wrongly flagged by the cron jobs can still be settled.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusExpired},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow, StatusExpired},
	StatusNoShow:    {StatusCompleted, StatusCancelled},
	StatusExpired:   {StatusCompleted, StatusCancelled},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusExpired:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// meetingOrder enforces forward-only progression of the call sub-state.
var meetingOrder = map[MeetingStatus]int{
	MeetingNotStarted: 0,
	MeetingWaiting:    1,
	MeetingActive:     2,
	MeetingEnded:      3,
}

func (m MeetingStatus) IsValid() bool {
	_, ok := meetingOrder[m]
	return ok
}

func (m MeetingStatus) CanAdvanceTo(next MeetingStatus) bool {
	cur, ok := meetingOrder[m]
	if !ok {
		return false
	}
	nxt, ok := meetingOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}

type RatingEntry struct {
	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`
}

type SessionRating struct {
	Student RatingEntry `gorm:"embedded;embeddedPrefix:student_" json:"student"`
	Mentor  RatingEntry `gorm:"embedded;embeddedPrefix:mentor_" json:"mentor"`
}

// AddReview records the reviewer's half of the session rating. Each party
// writes only its own side; the other side's entry is never touched.
func (b *Booking) AddReview(reviewerID uuid.UUID, entry RatingEntry) error {
	switch reviewerID {
	case b.StudentID, b.MentorID:
	default:
		return ErrNotParticipant
	}
	if b.Status != StatusCompleted {
		return ErrNotCompleted
	}
	if reviewerID == b.StudentID {
		b.SessionRating.Student = entry
	} else {
		b.SessionRating.Mentor = entry
	}
	return nil
}

// DeletableBy reports whether userID may hard-delete the booking: only the
// student who created it, and only while it is still pending.
func (b *Booking) DeletableBy(userID uuid.UUID) error {
	if b.StudentID != userID {
		return ErrNotParticipant
	}
	if b.Status != StatusPending {
		return ErrNotPending
	}
	return nil
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`
	MentorID  uuid.UUID `gorm:"not null;index" json:"mentor_id"`

	SessionTitle       string         `gorm:"size:255;not null" json:"session_title"`
	SessionDescription *string        `gorm:"type:text" json:"session_description,omitempty"`
	SessionType        string         `gorm:"size:30;not null;default:'one-on-one'" json:"session_type"`
	SessionDate        time.Time      `gorm:"not null" json:"session_date"`
	SessionTime        string         `gorm:"size:5;not null" json:"session_time"` // canonical "HH:MM", normalized at the input boundary
	Duration           int            `gorm:"not null;default:60" json:"duration"`
	Timezone           string         `gorm:"size:64;not null;default:'Asia/Kolkata'" json:"timezone"`
	Topics             pq.StringArray `gorm:"type:text[]" json:"topics"`
	Skills             pq.StringArray `gorm:"type:text[]" json:"skills"`
	StudentNotes       *string        `gorm:"type:text" json:"student_notes,omitempty"`

	Price         float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency      string  `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PaymentStatus string  `gorm:"size:20;not null;default:'pending'" json:"payment_status"`

	IsRecurring      bool    `gorm:"not null;default:false" json:"is_recurring"`
	RecurringPattern *string `gorm:"size:20" json:"recurring_pattern,omitempty"`

	Status BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty"`
	CancellationDate   *time.Time `json:"cancellation_date,omitempty"`

	RoomID           string        `gorm:"size:64;uniqueIndex" json:"room_id"`
	MeetingStatus    MeetingStatus `gorm:"size:20;not null;default:'not_started'" json:"meeting_status"`
	MeetingLink      *string       `gorm:"size:255" json:"meeting_link,omitempty"`
	SessionCompleted bool          `gorm:"not null;default:false" json:"session_completed"`
	SessionStartTime *time.Time    `json:"session_start_time,omitempty"`
	SessionEndTime   *time.Time    `json:"session_end_time,omitempty"`
	ActualDuration   *int          `json:"actual_duration,omitempty"` // minutes

	SessionRating SessionRating `gorm:"embedded;embeddedPrefix:rating_" json:"session_rating"`

	Student User `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Mentor  User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
