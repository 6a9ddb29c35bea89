package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusExpired} {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}
	assert.False(t, BookingStatus("pending_payment").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending can be confirmed", StatusPending, StatusConfirmed, true},
		{"pending can be cancelled", StatusPending, StatusCancelled, true},
		{"pending can be completed", StatusPending, StatusCompleted, true},
		{"pending can expire", StatusPending, StatusExpired, true},
		{"pending can be marked no-show", StatusPending, StatusNoShow, true},
		{"confirmed can be cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed can be completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed cannot go back to pending", StatusConfirmed, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"cancelled cannot be completed", StatusCancelled, StatusCompleted, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"completed cannot be reopened", StatusCompleted, StatusPending, false},
		{"no-show can be corrected to completed", StatusNoShow, StatusCompleted, true},
		{"no-show cannot be re-confirmed", StatusNoShow, StatusConfirmed, false},
		{"expired can be corrected to completed", StatusExpired, StatusCompleted, true},
		{"expired cannot be re-confirmed", StatusExpired, StatusConfirmed, false},
		{"self transition is rejected", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusExpired}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "terminal %q must not transition to %q", from, to)
		}
	}
}

func TestMeetingStatusAdvancesForwardOnly(t *testing.T) {
	assert.True(t, MeetingNotStarted.CanAdvanceTo(MeetingWaiting))
	assert.True(t, MeetingNotStarted.CanAdvanceTo(MeetingActive))
	assert.True(t, MeetingWaiting.CanAdvanceTo(MeetingActive))
	assert.True(t, MeetingActive.CanAdvanceTo(MeetingEnded))

	assert.False(t, MeetingEnded.CanAdvanceTo(MeetingActive))
	assert.False(t, MeetingActive.CanAdvanceTo(MeetingWaiting))
	assert.False(t, MeetingWaiting.CanAdvanceTo(MeetingWaiting))
	assert.False(t, MeetingActive.CanAdvanceTo(MeetingStatus("paused")))
}

func TestAddReviewWritesOwnSideOnly(t *testing.T) {
	studentID := uuid.New()
	mentorID := uuid.New()
	booking := Booking{StudentID: studentID, MentorID: mentorID, Status: StatusCompleted}

	four := 4
	studentReview := "great session"
	require.NoError(t, booking.AddReview(studentID, RatingEntry{Rating: &four, Review: &studentReview}))

	assert.Equal(t, &four, booking.SessionRating.Student.Rating)
	assert.Nil(t, booking.SessionRating.Mentor.Rating)
	assert.Nil(t, booking.SessionRating.Mentor.Review)

	five := 5
	require.NoError(t, booking.AddReview(mentorID, RatingEntry{Rating: &five}))

	assert.Equal(t, &five, booking.SessionRating.Mentor.Rating)
	assert.Equal(t, &four, booking.SessionRating.Student.Rating, "mentor review must not clobber the student side")
	assert.Equal(t, &studentReview, booking.SessionRating.Student.Review)
}

func TestAddReviewEligibility(t *testing.T) {
	studentID := uuid.New()
	mentorID := uuid.New()
	three := 3

	booking := Booking{StudentID: studentID, MentorID: mentorID, Status: StatusConfirmed}
	assert.ErrorIs(t, booking.AddReview(studentID, RatingEntry{Rating: &three}), ErrNotCompleted)

	booking.Status = StatusCompleted
	assert.ErrorIs(t, booking.AddReview(uuid.New(), RatingEntry{Rating: &three}), ErrNotParticipant)
	assert.Nil(t, booking.SessionRating.Student.Rating)
	assert.Nil(t, booking.SessionRating.Mentor.Rating)
}

func TestDeletableBy(t *testing.T) {
	studentID := uuid.New()
	mentorID := uuid.New()

	tests := []struct {
		name   string
		status BookingStatus
		caller uuid.UUID
		want   error
	}{
		{"student can delete pending", StatusPending, studentID, nil},
		{"mentor cannot delete", StatusPending, mentorID, ErrNotParticipant},
		{"stranger cannot delete", StatusPending, uuid.New(), ErrNotParticipant},
		{"confirmed is kept", StatusConfirmed, studentID, ErrNotPending},
		{"cancelled is kept", StatusCancelled, studentID, ErrNotPending},
		{"completed is kept", StatusCompleted, studentID, ErrNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := Booking{StudentID: studentID, MentorID: mentorID, Status: tt.status}
			err := booking.DeletableBy(tt.caller)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
