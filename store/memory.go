package store

import (
	"context"
	"sync"

	"ticket-engine/models"
)

// MemoryStore is the canonical in-process implementation. Each entity
// family is guarded by its own mutex so check-and-update sequences are
// atomic with respect to concurrent callers.
type MemoryStore struct {
	eventsMu sync.RWMutex
	events   map[string]models.Event

	ticketsMu sync.RWMutex
	tickets   map[string]models.Ticket

	promosMu sync.RWMutex
	promos   map[string]models.PromoCode

	paymentsMu sync.RWMutex
	payments   map[string]models.Payment

	idsMu sync.Mutex
	ids   map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string]models.Event),
		tickets:  make(map[string]models.Ticket),
		promos:   make(map[string]models.PromoCode),
		payments: make(map[string]models.Payment),
		ids:      make(map[string]struct{}),
	}
}

func (s *MemoryStore) CreateEvent(ctx context.Context, event *models.Event) error {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return models.ErrEventExists
	}
	s.events[event.ID] = *event
	return nil
}

func (s *MemoryStore) GetEvent(ctx context.Context, id string) (models.Event, error) {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return event, nil
}

func (s *MemoryStore) UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (models.Event, error) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	if err := fn(&event); err != nil {
		return models.Event{}, err
	}
	s.events[id] = event
	return event, nil
}

func (s *MemoryStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.ticketsMu.Lock()
	defer s.ticketsMu.Unlock()

	s.tickets[ticket.TicketID] = *ticket
	return nil
}

func (s *MemoryStore) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	s.ticketsMu.RLock()
	defer s.ticketsMu.RUnlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return models.Ticket{}, models.ErrTicketNotFound
	}
	return ticket, nil
}

func (s *MemoryStore) FindTicketByIntent(ctx context.Context, intentID string) (models.Ticket, error) {
	s.ticketsMu.RLock()
	defer s.ticketsMu.RUnlock()

	for _, ticket := range s.tickets {
		if ticket.PaymentIntentID == intentID {
			return ticket, nil
		}
	}
	return models.Ticket{}, models.ErrTicketNotFound
}

func (s *MemoryStore) UpdateTicket(ctx context.Context, ticketID string, fn func(*models.Ticket) error) (models.Ticket, error) {
	s.ticketsMu.Lock()
	defer s.ticketsMu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return models.Ticket{}, models.ErrTicketNotFound
	}
	if err := fn(&ticket); err != nil {
		return models.Ticket{}, err
	}
	s.tickets[ticketID] = ticket
	return ticket, nil
}

func (s *MemoryStore) ListEventTickets(ctx context.Context, eventID string) ([]models.Ticket, error) {
	s.ticketsMu.RLock()
	defer s.ticketsMu.RUnlock()

	var tickets []models.Ticket
	for _, ticket := range s.tickets {
		if ticket.EventID == eventID {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	s.promosMu.Lock()
	defer s.promosMu.Unlock()

	s.promos[promo.Code] = *promo
	return nil
}

func (s *MemoryStore) GetPromo(ctx context.Context, code string) (models.PromoCode, error) {
	s.promosMu.RLock()
	defer s.promosMu.RUnlock()

	promo, ok := s.promos[code]
	if !ok {
		return models.PromoCode{}, models.ErrPromoNotFound
	}
	return promo, nil
}

func (s *MemoryStore) UpdatePromo(ctx context.Context, code string, fn func(*models.PromoCode) error) (models.PromoCode, error) {
	s.promosMu.Lock()
	defer s.promosMu.Unlock()

	promo, ok := s.promos[code]
	if !ok {
		return models.PromoCode{}, models.ErrPromoNotFound
	}
	if err := fn(&promo); err != nil {
		return models.PromoCode{}, err
	}
	s.promos[code] = promo
	return promo, nil
}

func (s *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	s.payments[payment.IntentID] = *payment
	return nil
}

func (s *MemoryStore) GetPayment(ctx context.Context, intentID string) (models.Payment, error) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	payment, ok := s.payments[intentID]
	if !ok {
		return models.Payment{}, models.ErrUnknownIntent
	}
	return payment, nil
}

func (s *MemoryStore) UpdatePayment(ctx context.Context, intentID string, fn func(*models.Payment) error) (models.Payment, error) {
	s.paymentsMu.Lock()
	defer s.paymentsMu.Unlock()

	payment, ok := s.payments[intentID]
	if !ok {
		return models.Payment{}, models.ErrUnknownIntent
	}
	if err := fn(&payment); err != nil {
		return models.Payment{}, err
	}
	s.payments[intentID] = payment
	return payment, nil
}

func (s *MemoryStore) ClaimTicketID(ctx context.Context, id string) (bool, error) {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, nil
}

func (s *MemoryStore) ReleaseTicketID(ctx context.Context, id string) error {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()

	delete(s.ids, id)
	return nil
}
