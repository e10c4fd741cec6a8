package models

import "time"

// Quote is a display quote managed through the admin CMS.
type Quote struct {
	ID        string    `db:"id" json:"id"`
	Author    string    `db:"author" json:"author"`
	Text      string    `db:"text" json:"text"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EmailTemplate holds an admin-editable email body.
type EmailTemplate struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	BodyHTML  string    `db:"body_html" json:"body_html"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Email statuses for the send log.
const (
	EmailStatusSent   = "SENT"
	EmailStatusFailed = "FAILED"
)

// EmailLog records every delivery attempt through the SMTP relay.
type EmailLog struct {
	ID        string    `db:"id" json:"id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Subject   string    `db:"subject" json:"subject"`
	Template  string    `db:"template" json:"template"`
	Status    string    `db:"status" json:"status"`
	Error     string    `db:"error" json:"error,omitempty"`
	SentAt    time.Time `db:"sent_at" json:"sent_at"`
}
