package models

import "errors"

var (
	ErrEventNotFound     = errors.New("event: event not found")
	ErrEventExists       = errors.New("event: event already exists")
	ErrInsufficientSeats = errors.New("inventory: insufficient seats")
	ErrSpaceExhausted    = errors.New("ticket id: identifier space exhausted")
	ErrTicketNotFound    = errors.New("ticket: ticket not found")
	ErrCancelNotAllowed  = errors.New("ticket: cancel not allowed")
	ErrPromoNotFound     = errors.New("promo: code not found")
	ErrPromoExpired      = errors.New("promo: code expired")
	ErrPromoLimitReached = errors.New("promo: usage limit reached")
	ErrUnknownIntent     = errors.New("payment: unknown payment intent")
	ErrAmountMismatch    = errors.New("payment: amount or currency mismatch")
	ErrAlreadyFinalized  = errors.New("payment: already finalized")
)
