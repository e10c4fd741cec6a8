package models

import "time"

// Enrollment links a student to a batch once payment is confirmed.
type Enrollment struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	BatchID       string    `db:"batch_id" json:"batch_id"`
	EnrolledOn    time.Time `db:"enrolled_on" json:"enrolled_on"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail enriches Enrollment with student and batch context.
type EnrollmentDetail struct {
	Enrollment
	StudentName   string    `db:"student_name" json:"student_name"`
	StudentEmail  string    `db:"student_email" json:"student_email"`
	WorkshopTitle string    `db:"workshop_title" json:"workshop_title"`
	BatchDate     time.Time `db:"batch_date" json:"batch_date"`
	BatchTime     string    `db:"batch_time" json:"batch_time"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID  string
	BatchID    string
	WorkshopID string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
