// Package notify e-mails both parties of a booking when its status changes.
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
	"sewa-backend/internal/service"
)

// Email is one outgoing message.
type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) Mailer {
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// buildMessage converts an Email into a SendGrid v3 payload.
func (m *sendGridMailer) buildMessage(email Email) *mail.SGMailV3 {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(email.ToName, email.To)
	return mail.NewSingleEmail(from, email.Subject, to, email.PlainText, email.HTML)
}

func (m *sendGridMailer) Send(ctx context.Context, email Email) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", email.To, "subject", email.Subject)
	response, err := m.client.SendWithContext(ctx, m.buildMessage(email))
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", email.To)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// EmailNotifier is a service.TransitionListener.
type EmailNotifier struct {
	userRepo repository.UserRepository
	mailer   Mailer
}

func NewEmailNotifier(userRepo repository.UserRepository, mailer Mailer) *EmailNotifier {
	return &EmailNotifier{userRepo: userRepo, mailer: mailer}
}

func (n *EmailNotifier) TransitionCommitted(ctx context.Context, change *domain.StatusChange) error {
	recipients := service.Recipients(change)
	users, err := n.userRepo.GetByIDs(ctx, recipients)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}

	var firstErr error
	for _, id := range recipients {
		u, ok := users[id]
		if !ok || u.Email == "" {
			logger.Warn("Skipping status e-mail, no address on file", "userID", id, "bookingID", change.Booking.ID)
			continue
		}
		if err := n.mailer.Send(ctx, BuildStatusEmail(u, change)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildStatusEmail renders the message telling to about change.
func BuildStatusEmail(to *domain.User, change *domain.StatusChange) Email {
	b := change.Booking
	summary := service.DescribeChange(change)
	subject := fmt.Sprintf("[%s] %s", b.BookingCode, summary)

	plain := fmt.Sprintf("Hi %s,\n\n%s.\n\nDates: %s to %s\nStatus: %s\nTotal: %s\n",
		to.Name, summary, b.StartDate, b.EndDate, change.To, service.FormatCents(b.TotalAmountCents))
	body := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>%s.</p>
<table>
<tr><td>Dates</td><td>%s to %s</td></tr>
<tr><td>Status</td><td>%s</td></tr>
<tr><td>Total</td><td>%s</td></tr>
</table>
</body></html>`,
		html.EscapeString(to.Name), html.EscapeString(summary),
		b.StartDate, b.EndDate, change.To, service.FormatCents(b.TotalAmountCents))

	return Email{
		To:        to.Email,
		ToName:    to.Name,
		Subject:   subject,
		PlainText: plain,
		HTML:      body,
	}
}
