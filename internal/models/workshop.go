package models

import "time"

// Workshop is a bookable offering; scheduling lives on its batches.
type Workshop struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	FeeCents    int64     `db:"fee_cents" json:"fee_cents"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Duration    string    `db:"duration" json:"duration"`
	MentorID    *string   `db:"mentor_id" json:"mentor_id,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// WorkshopDetail enriches Workshop with mentor info.
type WorkshopDetail struct {
	Workshop
	MentorName *string `db:"mentor_name" json:"mentor_name,omitempty"`
}

// Mentor leads workshops.
type Mentor struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Bio       string    `db:"bio" json:"bio"`
	PhotoURL  string    `db:"photo_url" json:"photo_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
