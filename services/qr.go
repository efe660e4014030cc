package services

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// TicketDescriptor is the immutable content embedded in a ticket's QR
// payload. It must only be built once the ticket identifier and seat
// assignment are final.
type TicketDescriptor struct {
	TicketID   string
	EventName  string
	HolderName string
	SeatCount  int
}

// EncodeTicketPayload renders the descriptor as the scannable text
// payload. Deterministic: the same descriptor always yields the same
// payload.
func EncodeTicketPayload(d TicketDescriptor) string {
	return fmt.Sprintf(
		"Ticket ID: %s\nEvent: %s\nHolder: %s\nSeats: %d",
		d.TicketID, d.EventName, d.HolderName, d.SeatCount,
	)
}

// RenderTicketQR renders the descriptor's payload as a PNG QR image.
func RenderTicketQR(d TicketDescriptor, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(EncodeTicketPayload(d), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
