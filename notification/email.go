package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"
)

const confirmationSubject = "Your Ticket Booking Confirmation"

// EmailNotifier sends the booking confirmation over SMTP.
type EmailNotifier struct {
	addr string
	auth smtp.Auth
	from string
}

func NewEmailNotifier(addr, username, password, from string) *EmailNotifier {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &EmailNotifier{
		addr: addr,
		auth: auth,
		from: from,
	}
}

func (n *EmailNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	if c.Ticket.HolderEmail == "" {
		return fmt.Errorf("email: ticket %s has no holder email", c.Ticket.TicketID)
	}

	mail := mailyak.New(n.addr, n.auth)
	mail.From(n.from)
	mail.To(c.Ticket.HolderEmail)
	mail.Subject(confirmationSubject)
	mail.Plain().Set(BuildConfirmationBody(c))

	if err := mail.Send(); err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	return nil
}
