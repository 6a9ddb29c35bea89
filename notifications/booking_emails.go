package notifications

import (
	"fmt"
	"time"
)

// Message is a composed transactional email, ready to send.
type Message struct {
	Subject string
	HTML    string
}

// Send delivers a composed Message. Fire-and-forget like SendEmail.
func Send(toName, toEmail string, m Message) {
	SendEmail(toName, toEmail, m.Subject, m.HTML)
}

func WelcomeEmail() Message {
	return Message{
		Subject: "Welcome!",
		HTML:    "<h1>Welcome!</h1><p>Thank you for joining. Complete your profile to start booking sessions.</p>",
	}
}

func PasswordResetEmail(resetLink string) Message {
	return Message{
		Subject: "Your Password Reset Link",
		HTML: fmt.Sprintf("<h1>Password Reset</h1><p>Click the link below to reset your password. This link is valid for 15 minutes.</p><p><a href='%s'>Reset Password</a></p>",
			resetLink),
	}
}

func BookingRequestedEmail(studentName string, sessionDate time.Time, sessionTime string) Message {
	return Message{
		Subject: "You Have a New Booking Request!",
		HTML: fmt.Sprintf("<h1>New Booking Request</h1><p>%s requested a session on %s at %s. Log in to confirm.</p>",
			studentName, sessionDate.Format("January 2, 2006"), sessionTime),
	}
}

func BookingConfirmedEmail(mentorName string, sessionDate time.Time, sessionTime string) Message {
	return Message{
		Subject: "Your Session is Confirmed!",
		HTML: fmt.Sprintf("<h1>Session Confirmed</h1><p>%s confirmed your session on %s at %s.</p>",
			mentorName, sessionDate.Format("January 2, 2006"), sessionTime),
	}
}

func BookingCancelledEmail(sessionDate time.Time, sessionTime string) Message {
	return Message{
		Subject: "Session Cancelled",
		HTML: fmt.Sprintf("<h1>Session Cancelled</h1><p>Your session on %s at %s has been cancelled.</p>",
			sessionDate.Format("January 2, 2006"), sessionTime),
	}
}

func SessionReminderEmail(sessionTitle string, start time.Time, meetingLink string) Message {
	return Message{
		Subject: "Reminder: Your Session Starts in 1 Hour!",
		HTML: fmt.Sprintf("<h1>Session Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that <b>%s</b> is scheduled to start in one hour at %s.</p><p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>",
			sessionTitle, start.Format(time.Kitchen), meetingLink),
	}
}
