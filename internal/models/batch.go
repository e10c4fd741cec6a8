package models

import "time"

// Batch is a scheduled occurrence of a workshop with its own seat capacity.
type Batch struct {
	ID              string    `db:"id" json:"id"`
	WorkshopID      string    `db:"workshop_id" json:"workshop_id"`
	StartDate       time.Time `db:"start_date" json:"start_date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	Slots           int       `db:"slots" json:"slots"`
	Enrolled        int       `db:"enrolled" json:"enrolled"`
	MeetingLink     string    `db:"meeting_link" json:"meeting_link,omitempty"`
	MeetingID       string    `db:"meeting_id" json:"meeting_id,omitempty"`
	MeetingPassword string    `db:"meeting_password" json:"meeting_password,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Available reports remaining seats, never negative.
func (b Batch) Available() int {
	remaining := b.Slots - b.Enrolled
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BatchOption is a selectable batch presented to the student.
type BatchOption struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	Available int    `json:"available"`
}

// BatchDay groups selectable batches under one calendar date.
type BatchDay struct {
	Date    string        `json:"date"`
	Batches []BatchOption `json:"batches"`
}
