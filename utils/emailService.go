package utils

import (
	"fmt"
	"log"

	"learnhub/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail("LearnHub", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the standard LearnHub layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A40; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A40; line-height: 1.6; }
			.content h2 { color: #1A1A40; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #4C6FFF; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4C6FFF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! Your account has been created.</p>
		<p>Browse the course catalogue and start learning right away.</p>
	`, name)

	go SendEmail(email, name, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendOTPEmail delivers a verification code
func SendOTPEmail(email, name, otp string) {
	subject := "Your LearnHub verification code"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your verification code is:</p>
		<div class="info-box" style="font-size: 24px; letter-spacing: 6px; text-align: center;"><strong>%s</strong></div>
		<p>This code expires in 10 minutes. If you did not request it, you can ignore this email.</p>
	`, name, otp)

	go SendEmail(email, name, subject, getEmailTemplate("Verify your email", body))
}

// SendCourseInvitationEmail invites an email address into a course
func SendCourseInvitationEmail(email, courseTitle, token string) {
	subject := "You have been invited to " + courseTitle
	link := fmt.Sprintf("%s/invitations/%s", config.AppConfig.FrontendURL, token)
	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>You have been invited to join the course <strong>%s</strong> on LearnHub.</p>
		<p><a class="btn" href="%s">Accept Invitation</a></p>
		<p>The invitation link expires in 7 days.</p>
	`, courseTitle, link)

	go SendEmail(email, "", subject, getEmailTemplate("Course Invitation", body))
}

// SendCertificateEmail notifies a learner their certificate has been issued
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
		<p>You can download your certificate from your dashboard.</p>
	`, name, courseTitle, certificateNumber)

	go SendEmail(email, name, subject, getEmailTemplate("Certificate Issued", body))
}
