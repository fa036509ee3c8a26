package utils

import (
	"fmt"
	"html"
	"sync"

	"learnhub/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail through SendGrid. Triggers return immediately and deliver
// on a goroutine; Wait blocks until every queued message is done.
type Mailer struct {
	from *mail.Email
	send func(*mail.SGMailV3) error
	log  *logger.Logger
	wg   sync.WaitGroup
}

// NewMailer returns a mailer that only logs when apiKey is empty.
func NewMailer(apiKey, sender string, baseLog *logger.Logger) *Mailer {
	m := &Mailer{
		from: mail.NewEmail("LearnHub", sender),
		log:  baseLog.With("service", "Mailer"),
	}
	if apiKey == "" {
		m.send = func(msg *mail.SGMailV3) error {
			m.log.Debug("email delivery disabled", "subject", msg.Subject)
			return nil
		}
		return m
	}
	client := sendgrid.NewSendClient(apiKey)
	m.send = func(msg *mail.SGMailV3) error {
		resp, err := client.Send(msg)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
		}
		return nil
	}
	return m
}

// SendEmail delivers one message synchronously.
func (m *Mailer) SendEmail(to, name, subject, htmlBody string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail(name, to), subject, htmlBody)
	if err := m.send(msg); err != nil {
		m.log.Error("email not sent", "to", to, "subject", subject, "error", err)
		return err
	}
	m.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

func (m *Mailer) sendAsync(to, name, subject, htmlBody string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_ = m.SendEmail(to, name, subject, htmlBody)
	}()
}

func (m *Mailer) Wait() { m.wg.Wait() }

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6FB; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 28px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 36px 30px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #EEF2FF; padding: 15px; border-radius: 4px; border-left: 4px solid #6366F1; margin: 20px 0; }
			.footer { background-color: #F4F6FB; padding: 20px; text-align: center; font-size: 12px; color: #6B7280; }
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
				You receive this email because you have a LearnHub account.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

func (m *Mailer) SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your <strong>LearnHub</strong> account is ready. Browse the catalog and start your first course.</p>
	`, html.EscapeString(name))
	m.sendAsync(email, name, "Welcome to LearnHub", getEmailTemplate("Welcome!", body))
}

func (m *Mailer) SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Your progress is saved as you watch, so you can stop and resume at any time.</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle))
	m.sendAsync(email, name, "Enrolled: "+courseTitle, getEmailTemplate("Enrollment confirmed", body))
}

func (m *Mailer) SendPaymentReceiptEmail(email, name, courseTitle, orderID string, amount float64) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received your payment of <strong>%.2f</strong> for <strong>%s</strong>.</p>
		<div class="info-box">Order reference: %s</div>
	`, html.EscapeString(name), amount, html.EscapeString(courseTitle), html.EscapeString(orderID))
	m.sendAsync(email, name, "Payment receipt: "+courseTitle, getEmailTemplate("Payment received", body))
}
