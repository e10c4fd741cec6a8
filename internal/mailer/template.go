package mailer

import (
	"fmt"
	"strings"
)

// ConfirmationData feeds the enrollment confirmation email.
type ConfirmationData struct {
	StudentName     string
	WorkshopTitle   string
	BatchDate       string
	BatchTime       string
	MeetingLink     string
	MeetingID       string
	MeetingPassword string
}

// ConfirmationSubject builds the default confirmation subject line.
func ConfirmationSubject(workshopTitle string) string {
	return "You're in! " + workshopTitle + " enrollment confirmed"
}

// ConfirmationBody renders the built-in confirmation layout, used when no
// CMS template named "enrollment_confirmation" exists.
func ConfirmationBody(data ConfirmationData) string {
	var meeting string
	if data.MeetingLink != "" {
		meeting = fmt.Sprintf(`
		<div class="info-box">
			<strong>Join link:</strong> <a href="%s">%s</a><br>
			<strong>Meeting ID:</strong> %s<br>
			<strong>Password:</strong> %s
		</div>`, data.MeetingLink, data.MeetingLink, data.MeetingID, data.MeetingPassword)
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your seat for <strong>%s</strong> is confirmed.</p>
		<p><strong>Date:</strong> %s<br><strong>Time:</strong> %s</p>
		%s
		<p>We look forward to seeing you there.</p>
	`, data.StudentName, data.WorkshopTitle, data.BatchDate, data.BatchTime, meeting)

	return wrapLayout("Enrollment Confirmed", body)
}

// RenderTemplate substitutes {{placeholders}} in a CMS-managed template.
func RenderTemplate(bodyHTML string, data ConfirmationData) string {
	replacer := strings.NewReplacer(
		"{{student_name}}", data.StudentName,
		"{{workshop_title}}", data.WorkshopTitle,
		"{{batch_date}}", data.BatchDate,
		"{{batch_time}}", data.BatchTime,
		"{{meeting_link}}", data.MeetingLink,
		"{{meeting_id}}", data.MeetingID,
		"{{meeting_password}}", data.MeetingPassword,
	)
	return replacer.Replace(bodyHTML)
}

func wrapLayout(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<style>
	body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
	.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
	.header { background-color: #1A2238; padding: 30px; text-align: center; }
	.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
	.content { padding: 40px 30px; color: #1A2238; line-height: 1.6; }
	.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
	.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #FF6A3D; margin: 20px 0; }
</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>KALASETU WORKSHOPS</h1></div>
		<div class="content"><h2>%s</h2>%s</div>
		<div class="footer">&copy; Kalasetu Workshops. All rights reserved.</div>
	</div>
</body>
</html>`, title, content)
}
