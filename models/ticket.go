package models

import (
	"time"
)

const (
	TicketPendingPayment = "pending_payment"
	TicketConfirmed      = "confirmed"
	TicketCancelled      = "cancelled"
)

type Ticket struct {
	TicketID        string     `json:"ticket_id"`
	EventID         string     `json:"event_id"`
	HolderID        string     `json:"holder_id"`
	HolderName      string     `json:"holder_name"`
	HolderEmail     string     `json:"holder_email,omitempty"`
	SeatCount       int        `json:"seat_count"`
	QRPayload       string     `json:"qr_payload"`
	Status          string     `json:"status"` // pending_payment, confirmed, cancelled
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	IssuedAt        time.Time  `json:"issued_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}
