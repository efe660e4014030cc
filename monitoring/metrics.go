package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total booking attempts per event",
		},
		[]string{"event_id", "status"},
	)

	availableSeats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "available_seats",
			Help: "Current available seats per event",
		},
		[]string{"event_id"},
	)

	promoRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_redemptions_total",
			Help: "Total promo code redemption attempts",
		},
		[]string{"code", "status"},
	)

	paymentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_outcomes_total",
			Help: "Total finalized payment outcomes",
		},
		[]string{"status"},
	)

	ticketCancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_cancellations_total",
			Help: "Total ticket cancellations per event",
		},
		[]string{"event_id"},
	)

	ticketIDRetries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_id_generation_attempts",
			Help:    "Claim attempts needed to generate a ticket identifier",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)
)

// TrackBooking records a booking attempt outcome.
func TrackBooking(eventID, status string) {
	bookingsTotal.WithLabelValues(eventID, status).Inc()
}

// SetAvailableSeats updates the availability gauge for an event.
func SetAvailableSeats(eventID string, available int) {
	availableSeats.WithLabelValues(eventID).Set(float64(available))
}

// TrackPromoRedemption records a promo redemption attempt.
func TrackPromoRedemption(code, status string) {
	promoRedemptions.WithLabelValues(code, status).Inc()
}

// TrackPaymentOutcome records a finalized payment outcome.
func TrackPaymentOutcome(status string) {
	paymentOutcomes.WithLabelValues(status).Inc()
}

// TrackCancellation records a ticket cancellation.
func TrackCancellation(eventID string) {
	ticketCancellations.WithLabelValues(eventID).Inc()
}

// ObserveTicketIDRetries records how many claim attempts a generation took.
func ObserveTicketIDRetries(attempts int) {
	ticketIDRetries.Observe(float64(attempts))
}
