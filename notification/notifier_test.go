package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ticket-engine/models"
)

func testConfirmation() Confirmation {
	return Confirmation{
		Ticket: models.Ticket{
			TicketID:    "1234567",
			EventID:     "event-1",
			HolderID:    "holder-1",
			HolderName:  "Ada Lovelace",
			HolderEmail: "ada@example.com",
			SeatCount:   2,
			Status:      models.TicketConfirmed,
		},
		Event: models.Event{
			ID:       "event-1",
			Name:     "Test Concert",
			Venue:    "Test Arena",
			StartsAt: time.Date(2026, 10, 3, 19, 30, 0, 0, time.UTC),
		},
	}
}

func TestBuildConfirmationBody(t *testing.T) {
	body := BuildConfirmationBody(testConfirmation())

	assert.Contains(t, body, "Dear Ada Lovelace")
	assert.Contains(t, body, `event "Test Concert"`)
	assert.Contains(t, body, "Ticket ID: 1234567")
	assert.Contains(t, body, "Venue: Test Arena")
	assert.Contains(t, body, "Date: 03-10-2026 07:30 PM")
	assert.Contains(t, body, "Seats: 2")
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	s.calls++
	return s.err
}

func TestMultiNotifier_AttemptsAllChannels(t *testing.T) {
	first := &stubNotifier{err: errors.New("smtp down")}
	second := &stubNotifier{}

	err := MultiNotifier{first, second}.SendConfirmation(context.Background(), testConfirmation())
	assert.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls, "one failing channel must not stop the others")
}

func TestEmailNotifier_RequiresHolderEmail(t *testing.T) {
	n := NewEmailNotifier("localhost:25", "", "", "tickets@example.com")

	c := testConfirmation()
	c.Ticket.HolderEmail = ""

	assert.Error(t, n.SendConfirmation(context.Background(), c))
}
