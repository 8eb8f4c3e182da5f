// Package notification delivers leave notifications. Delivery is best-effort: callers log failures and move on.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-leave/internal/events"
)

//go:generate mockgen -source=notification.go -destination=mock/notification_mock.go -package=mock
type Sender interface {
	Send(ctx context.Context, event events.LeaveNotificationEvent) error
}

// ErrUndeliverable marks notifications that can never be sent, such as a missing recipient address.
var ErrUndeliverable = errors.New("notification undeliverable")

type Mail struct {
	To      string
	Subject string
	Body    string
}

const timeLayout = "2006-01-02 15:04"

// Render turns an event into the plain text mail sent to its recipient.
func Render(event events.LeaveNotificationEvent) (Mail, error) {
	if strings.TrimSpace(event.RecipientEmail) == "" {
		return Mail{}, fmt.Errorf("%w: %s for leave %s has no recipient email", ErrUndeliverable, event.EventType, event.LeaveID)
	}

	var b strings.Builder
	var subject string
	switch event.EventType {
	case events.LeaveSubmittedEvent:
		subject = fmt.Sprintf("Leave request from %s awaits review", event.EmployeeName)
		fmt.Fprintf(&b, "Hello %s,\n\n", event.RecipientName)
		fmt.Fprintf(&b, "%s submitted a leave request from %s to %s (%s hours).\n\n",
			event.EmployeeName, event.StartAt.Format(timeLayout), event.EndAt.Format(timeLayout), event.Hours)
		fmt.Fprintf(&b, "Review it here: %s\n", event.Link)
	case events.LeaveReviewedEvent:
		subject = fmt.Sprintf("Your leave request was %s", strings.ToLower(event.Status))
		fmt.Fprintf(&b, "Hello %s,\n\n", event.RecipientName)
		fmt.Fprintf(&b, "Your leave request from %s to %s was %s.\n",
			event.StartAt.Format(timeLayout), event.EndAt.Format(timeLayout), strings.ToLower(event.Status))
		if event.RejectionReason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", event.RejectionReason)
		}
		fmt.Fprintf(&b, "\nDetails: %s\n", event.Link)
	default:
		return Mail{}, fmt.Errorf("%w: unknown notification type %q", ErrUndeliverable, event.EventType)
	}
	b.WriteString("\nThis message was sent automatically, please do not reply.\n")

	return Mail{To: event.RecipientEmail, Subject: subject, Body: b.String()}, nil
}
