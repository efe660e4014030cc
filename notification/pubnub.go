package notification

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go"
)

// PubNubNotifier publishes confirmations to the holder's channel so
// connected clients see the booking settle in real time.
type PubNubNotifier struct {
	pubnub *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pubnub: pn}
}

func (n *PubNubNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	channel := fmt.Sprintf("user-%s", c.Ticket.HolderID)

	_, _, err := n.pubnub.Publish().
		Channel(channel).
		Message(map[string]any{
			"type":       "ticket_confirmed",
			"ticket_id":  c.Ticket.TicketID,
			"event_id":   c.Ticket.EventID,
			"event_name": c.Event.Name,
			"seat_count": c.Ticket.SeatCount,
		}).
		Execute()
	if err != nil {
		return fmt.Errorf("pubnub publish: %w", err)
	}
	return nil
}
