package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

const (
	LeaveSubmittedEvent = "LEAVE_SUBMITTED"
	LeaveReviewedEvent  = "LEAVE_REVIEWED"
)

// LeaveNotificationEvent carries everything the mailer needs, so the consumer never reads the leave tables.
type LeaveNotificationEvent struct {
	EventType       string    `json:"event_type"`
	LeaveID         string    `json:"leave_id"`
	CompanyID       string    `json:"company_id"`
	RecipientID     string    `json:"recipient_id"`
	RecipientEmail  string    `json:"recipient_email"`
	RecipientName   string    `json:"recipient_name"`
	EmployeeName    string    `json:"employee_name"`
	Status          string    `json:"status"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Hours           string    `json:"hours"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	Link            string    `json:"link"`
	OccurredAt      time.Time `json:"occurred_at"`
}
