package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"ticket-engine/models"
)

// SQLiteStore persists the engine's state in a single SQLite database.
// Update closures run inside a transaction on a single-connection pool,
// so every read-modify-write is serialized against concurrent writers.
type SQLiteStore struct {
	db *dbx.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		starts_at TEXT NOT NULL DEFAULT '',
		total_seats INTEGER NOT NULL,
		available_seats INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft'
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		holder_id TEXT NOT NULL,
		holder_name TEXT NOT NULL DEFAULT '',
		holder_email TEXT NOT NULL DEFAULT '',
		seat_count INTEGER NOT NULL,
		qr_payload TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		payment_intent_id TEXT NOT NULL DEFAULT '',
		issued_at TEXT NOT NULL,
		cancelled_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_event ON tickets (event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_intent ON tickets (payment_intent_id)`,
	`CREATE TABLE IF NOT EXISTS promo_codes (
		code TEXT PRIMARY KEY,
		discount TEXT NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 0,
		usage_limit INTEGER NOT NULL,
		expires_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		intent_id TEXT PRIMARY KEY,
		holder_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		completed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_ids (
		id TEXT PRIMARY KEY
	)`,
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := dbx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// A single connection serializes all transactions.
	db.DB().SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.NewQuery(stmt).WithContext(ctx).Execute(); err != nil {
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type eventRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	Venue          string `db:"venue"`
	StartsAt       string `db:"starts_at"`
	TotalSeats     int    `db:"total_seats"`
	AvailableSeats int    `db:"available_seats"`
	Status         string `db:"status"`
}

func (r eventRow) model() models.Event {
	startsAt, _ := time.Parse(time.RFC3339Nano, r.StartsAt)
	return models.Event{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Venue:          r.Venue,
		StartsAt:       startsAt,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
		Status:         r.Status,
	}
}

func eventParams(e *models.Event) dbx.Params {
	return dbx.Params{
		"id":              e.ID,
		"name":            e.Name,
		"description":     e.Description,
		"venue":           e.Venue,
		"starts_at":       e.StartsAt.Format(time.RFC3339Nano),
		"total_seats":     e.TotalSeats,
		"available_seats": e.AvailableSeats,
		"status":          e.Status,
	}
}

func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	var row eventRow
	err := s.db.NewQuery(`SELECT id, name, description, venue, starts_at, total_seats, available_seats, status FROM events WHERE id={:id}`).
		WithContext(ctx).
		Bind(dbx.Params{"id": event.ID}).
		One(&row)
	if err == nil {
		return models.ErrEventExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.db.Insert("events", eventParams(event)).WithContext(ctx).Execute()
	return err
}

func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var row eventRow
	err := s.db.NewQuery(`SELECT id, name, description, venue, starts_at, total_seats, available_seats, status FROM events WHERE id={:id}`).
		WithContext(ctx).
		Bind(dbx.Params{"id": id}).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, models.ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return row.model(), nil
}

func (s *SQLiteStore) UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (models.Event, error) {
	var updated models.Event
	err := s.db.Transactional(func(tx *dbx.Tx) error {
		var row eventRow
		err := tx.NewQuery(`SELECT id, name, description, venue, starts_at, total_seats, available_seats, status FROM events WHERE id={:id}`).
			WithContext(ctx).
			Bind(dbx.Params{"id": id}).
			One(&row)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrEventNotFound
		}
		if err != nil {
			return err
		}

		event := row.model()
		if err := fn(&event); err != nil {
			return err
		}

		if _, err := tx.Update("events", eventParams(&event), dbx.HashExp{"id": id}).WithContext(ctx).Execute(); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

type ticketRow struct {
	TicketID        string         `db:"ticket_id"`
	EventID         string         `db:"event_id"`
	HolderID        string         `db:"holder_id"`
	HolderName      string         `db:"holder_name"`
	HolderEmail     string         `db:"holder_email"`
	SeatCount       int            `db:"seat_count"`
	QRPayload       string         `db:"qr_payload"`
	Status          string         `db:"status"`
	PaymentIntentID string         `db:"payment_intent_id"`
	IssuedAt        string         `db:"issued_at"`
	CancelledAt     sql.NullString `db:"cancelled_at"`
}

const ticketColumns = `ticket_id, event_id, holder_id, holder_name, holder_email, seat_count, qr_payload, status, payment_intent_id, issued_at, cancelled_at`

func (r ticketRow) model() models.Ticket {
	issuedAt, _ := time.Parse(time.RFC3339Nano, r.IssuedAt)
	ticket := models.Ticket{
		TicketID:        r.TicketID,
		EventID:         r.EventID,
		HolderID:        r.HolderID,
		HolderName:      r.HolderName,
		HolderEmail:     r.HolderEmail,
		SeatCount:       r.SeatCount,
		QRPayload:       r.QRPayload,
		Status:          r.Status,
		PaymentIntentID: r.PaymentIntentID,
		IssuedAt:        issuedAt,
	}
	if r.CancelledAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, r.CancelledAt.String); err == nil {
			ticket.CancelledAt = &t
		}
	}
	return ticket
}

func ticketParams(t *models.Ticket) dbx.Params {
	var cancelledAt any
	if t.CancelledAt != nil {
		cancelledAt = t.CancelledAt.Format(time.RFC3339Nano)
	}
	return dbx.Params{
		"ticket_id":         t.TicketID,
		"event_id":          t.EventID,
		"holder_id":         t.HolderID,
		"holder_name":       t.HolderName,
		"holder_email":      t.HolderEmail,
		"seat_count":        t.SeatCount,
		"qr_payload":        t.QRPayload,
		"status":            t.Status,
		"payment_intent_id": t.PaymentIntentID,
		"issued_at":         t.IssuedAt.Format(time.RFC3339Nano),
		"cancelled_at":      cancelledAt,
	}
}

func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := s.db.Insert("tickets", ticketParams(ticket)).WithContext(ctx).Execute()
	return err
}

func (s *SQLiteStore) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	var row ticketRow
	err := s.db.NewQuery(`SELECT `+ticketColumns+` FROM tickets WHERE ticket_id={:id}`).
		WithContext(ctx).
		Bind(dbx.Params{"id": ticketID}).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, models.ErrTicketNotFound
	}
	if err != nil {
		return models.Ticket{}, err
	}
	return row.model(), nil
}

func (s *SQLiteStore) FindTicketByIntent(ctx context.Context, intentID string) (models.Ticket, error) {
	var row ticketRow
	err := s.db.NewQuery(`SELECT `+ticketColumns+` FROM tickets WHERE payment_intent_id={:intent} AND payment_intent_id != ''`).
		WithContext(ctx).
		Bind(dbx.Params{"intent": intentID}).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, models.ErrTicketNotFound
	}
	if err != nil {
		return models.Ticket{}, err
	}
	return row.model(), nil
}

func (s *SQLiteStore) UpdateTicket(ctx context.Context, ticketID string, fn func(*models.Ticket) error) (models.Ticket, error) {
	var updated models.Ticket
	err := s.db.Transactional(func(tx *dbx.Tx) error {
		var row ticketRow
		err := tx.NewQuery(`SELECT `+ticketColumns+` FROM tickets WHERE ticket_id={:id}`).
			WithContext(ctx).
			Bind(dbx.Params{"id": ticketID}).
			One(&row)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrTicketNotFound
		}
		if err != nil {
			return err
		}

		ticket := row.model()
		if err := fn(&ticket); err != nil {
			return err
		}

		if _, err := tx.Update("tickets", ticketParams(&ticket), dbx.HashExp{"ticket_id": ticketID}).WithContext(ctx).Execute(); err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	return updated, nil
}

func (s *SQLiteStore) ListEventTickets(ctx context.Context, eventID string) ([]models.Ticket, error) {
	var rows []ticketRow
	err := s.db.NewQuery(`SELECT `+ticketColumns+` FROM tickets WHERE event_id={:event} ORDER BY issued_at`).
		WithContext(ctx).
		Bind(dbx.Params{"event": eventID}).
		All(&rows)
	if err != nil {
		return nil, err
	}

	tickets := make([]models.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.model())
	}
	return tickets, nil
}

type promoRow struct {
	Code       string `db:"code"`
	Discount   string `db:"discount"`
	UsageCount int    `db:"usage_count"`
	UsageLimit int    `db:"usage_limit"`
	ExpiresAt  string `db:"expires_at"`
}

func (r promoRow) model() (models.PromoCode, error) {
	discount, err := decimal.NewFromString(r.Discount)
	if err != nil {
		return models.PromoCode{}, fmt.Errorf("sqlite promo discount: %w", err)
	}
	expiresAt, _ := time.Parse(time.RFC3339Nano, r.ExpiresAt)
	return models.PromoCode{
		Code:       r.Code,
		Discount:   discount,
		UsageCount: r.UsageCount,
		UsageLimit: r.UsageLimit,
		ExpiresAt:  expiresAt,
	}, nil
}

func promoParams(p *models.PromoCode) dbx.Params {
	return dbx.Params{
		"code":        p.Code,
		"discount":    p.Discount.String(),
		"usage_count": p.UsageCount,
		"usage_limit": p.UsageLimit,
		"expires_at":  p.ExpiresAt.Format(time.RFC3339Nano),
	}
}

func (s *SQLiteStore) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	_, err := s.db.Insert("promo_codes", promoParams(promo)).WithContext(ctx).Execute()
	return err
}

func (s *SQLiteStore) GetPromo(ctx context.Context, code string) (models.PromoCode, error) {
	var row promoRow
	err := s.db.NewQuery(`SELECT code, discount, usage_count, usage_limit, expires_at FROM promo_codes WHERE code={:code}`).
		WithContext(ctx).
		Bind(dbx.Params{"code": code}).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PromoCode{}, models.ErrPromoNotFound
	}
	if err != nil {
		return models.PromoCode{}, err
	}
	return row.model()
}

func (s *SQLiteStore) UpdatePromo(ctx context.Context, code string, fn func(*models.PromoCode) error) (models.PromoCode, error) {
	var updated models.PromoCode
	err := s.db.Transactional(func(tx *dbx.Tx) error {
		var row promoRow
		err := tx.NewQuery(`SELECT code, discount, usage_count, usage_limit, expires_at FROM promo_codes WHERE code={:code}`).
			WithContext(ctx).
			Bind(dbx.Params{"code": code}).
			One(&row)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPromoNotFound
		}
		if err != nil {
			return err
		}

		promo, err := row.model()
		if err != nil {
			return err
		}
		if err := fn(&promo); err != nil {
			return err
		}

		if _, err := tx.Update("promo_codes", promoParams(&promo), dbx.HashExp{"code": code}).WithContext(ctx).Execute(); err != nil {
			return err
		}
		updated = promo
		return nil
	})
	if err != nil {
		return models.PromoCode{}, err
	}
	return updated, nil
}

type paymentRow struct {
	IntentID    string         `db:"intent_id"`
	HolderID    string         `db:"holder_id"`
	Amount      string         `db:"amount"`
	Currency    string         `db:"currency"`
	Status      string         `db:"status"`
	Method      string         `db:"method"`
	CreatedAt   string         `db:"created_at"`
	CompletedAt sql.NullString `db:"completed_at"`
}

func (r paymentRow) model() (models.Payment, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Payment{}, fmt.Errorf("sqlite payment amount: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	payment := models.Payment{
		IntentID:  r.IntentID,
		HolderID:  r.HolderID,
		Amount:    amount,
		Currency:  r.Currency,
		Status:    models.PaymentStatus(r.Status),
		Method:    r.Method,
		CreatedAt: createdAt,
	}
	if r.CompletedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, r.CompletedAt.String); err == nil {
			payment.CompletedAt = &t
		}
	}
	return payment, nil
}

func paymentParams(p *models.Payment) dbx.Params {
	var completedAt any
	if p.CompletedAt != nil {
		completedAt = p.CompletedAt.Format(time.RFC3339Nano)
	}
	return dbx.Params{
		"intent_id":    p.IntentID,
		"holder_id":    p.HolderID,
		"amount":       p.Amount.String(),
		"currency":     p.Currency,
		"status":       string(p.Status),
		"method":       p.Method,
		"created_at":   p.CreatedAt.Format(time.RFC3339Nano),
		"completed_at": completedAt,
	}
}

func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.db.Insert("payments", paymentParams(payment)).WithContext(ctx).Execute()
	return err
}

func (s *SQLiteStore) GetPayment(ctx context.Context, intentID string) (models.Payment, error) {
	var row paymentRow
	err := s.db.NewQuery(`SELECT intent_id, holder_id, amount, currency, status, method, created_at, completed_at FROM payments WHERE intent_id={:id}`).
		WithContext(ctx).
		Bind(dbx.Params{"id": intentID}).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrUnknownIntent
	}
	if err != nil {
		return models.Payment{}, err
	}
	return row.model()
}

func (s *SQLiteStore) UpdatePayment(ctx context.Context, intentID string, fn func(*models.Payment) error) (models.Payment, error) {
	var updated models.Payment
	err := s.db.Transactional(func(tx *dbx.Tx) error {
		var row paymentRow
		err := tx.NewQuery(`SELECT intent_id, holder_id, amount, currency, status, method, created_at, completed_at FROM payments WHERE intent_id={:id}`).
			WithContext(ctx).
			Bind(dbx.Params{"id": intentID}).
			One(&row)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrUnknownIntent
		}
		if err != nil {
			return err
		}

		payment, err := row.model()
		if err != nil {
			return err
		}
		if err := fn(&payment); err != nil {
			return err
		}

		if _, err := tx.Update("payments", paymentParams(&payment), dbx.HashExp{"intent_id": intentID}).WithContext(ctx).Execute(); err != nil {
			return err
		}
		updated = payment
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return updated, nil
}

func (s *SQLiteStore) ClaimTicketID(ctx context.Context, id string) (bool, error) {
	result, err := s.db.NewQuery(`INSERT OR IGNORE INTO ticket_ids (id) VALUES ({:id})`).
		WithContext(ctx).
		Bind(dbx.Params{"id": id}).
		Execute()
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *SQLiteStore) ReleaseTicketID(ctx context.Context, id string) error {
	_, err := s.db.NewQuery(`DELETE FROM ticket_ids WHERE id={:id}`).
		WithContext(ctx).
		Bind(dbx.Params{"id": id}).
		Execute()
	return err
}
