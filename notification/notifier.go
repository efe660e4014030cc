package notification

import (
	"context"
	"fmt"

	"ticket-engine/models"
)

// Confirmation carries a finalized ticket to outbound channels.
type Confirmation struct {
	Ticket models.Ticket
	Event  models.Event
}

// Notifier delivers booking confirmations out-of-band. Dispatch is
// fire-and-forget: callers log failures and never propagate them into
// the booking flow.
type Notifier interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

// BuildConfirmationBody renders the plain-text confirmation message.
func BuildConfirmationBody(c Confirmation) string {
	return fmt.Sprintf(`Dear %s,

Thank you for booking your ticket for the event "%s"!

Here are your ticket details:
------------------------------------------
Ticket ID: %s
Event: %s
Date: %s
Venue: %s
Seats: %d
------------------------------------------

Please find the QR code for your ticket in your account on our website.

If you have any questions or need further assistance, feel free to contact us.

Warm regards,
Event Management Team
`,
		c.Ticket.HolderName,
		c.Event.Name,
		c.Ticket.TicketID,
		c.Event.Name,
		c.Event.StartsAt.Format("02-01-2006 03:04 PM"),
		c.Event.Venue,
		c.Ticket.SeatCount,
	)
}

// NopNotifier discards confirmations.
type NopNotifier struct{}

func (NopNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	return nil
}

// MultiNotifier fans a confirmation out to several channels, returning
// the first error after attempting all of them.
type MultiNotifier []Notifier

func (m MultiNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	var firstErr error
	for _, n := range m {
		if err := n.SendConfirmation(ctx, c); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
