package utils

import (
	"fmt"
	"lms/config"
	"net/smtp"
	"strings"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnSphere <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// getEmailTemplate wraps body content in the shared layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.highlight { text-align: center; color: #d7b56d; font-size: 28px; margin: 20px 0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				LearnSphere &middot; Happy Learning!
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendEnrollmentEmail sends an email notification when a user enrolls in a course
func SendEnrollmentEmail(email, userName, courseTitle string) error {
	body := fmt.Sprintf(`
		<h2>Enrollment Successful!</h2>
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<div class="highlight">%s</div>
		<p>You can now access the course content and start learning. Complete all chapters to earn your certificate.</p>
	`, userName, courseTitle)

	return SendEmail([]string{email},
		"Course Enrollment Confirmation - LearnSphere",
		getEmailTemplate("Welcome Aboard", body))
}

// SendCertificateEmail sends the certificate notification email
func SendCertificateEmail(email, userName, courseTitle, certificateNumber string) error {
	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed the course:</p>
		<div class="highlight">%s</div>
		<div class="info-box">Your certificate number is <strong>%s</strong>.</div>
		<p>You can download your certificate from your dashboard.</p>
	`, userName, courseTitle, certificateNumber)

	return SendEmail([]string{email},
		"Your Course Certificate - LearnSphere",
		getEmailTemplate("Certificate Issued", body))
}
