package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	data := ConfirmationData{
		StudentName:   "Asha Rao",
		WorkshopTitle: "Vedic Maths",
		BatchDate:     "2026-09-15",
		BatchTime:     "10:00",
		MeetingLink:   "https://meet.example.com/vm",
	}

	rendered := RenderTemplate("Hi {{student_name}}, {{workshop_title}} starts {{batch_date}} at {{batch_time}}: {{meeting_link}}", data)
	assert.Equal(t, "Hi Asha Rao, Vedic Maths starts 2026-09-15 at 10:00: https://meet.example.com/vm", rendered)
}

func TestConfirmationBodyIncludesMeetingDetails(t *testing.T) {
	body := ConfirmationBody(ConfirmationData{
		StudentName:     "Asha Rao",
		WorkshopTitle:   "Vedic Maths",
		BatchDate:       "2026-09-15",
		BatchTime:       "10:00",
		MeetingLink:     "https://meet.example.com/vm",
		MeetingID:       "123-456",
		MeetingPassword: "kalasetu",
	})

	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "Vedic Maths")
	assert.Contains(t, body, "https://meet.example.com/vm")
	assert.Contains(t, body, "123-456")
}

func TestConfirmationBodyWithoutMeeting(t *testing.T) {
	body := ConfirmationBody(ConfirmationData{StudentName: "Asha Rao", WorkshopTitle: "Vedic Maths"})
	assert.NotContains(t, body, "Join link")
}

func TestConfirmationSubject(t *testing.T) {
	assert.Equal(t, "You're in! Vedic Maths enrollment confirmed", ConfirmationSubject("Vedic Maths"))
}
