package app

import (
	"context"
	"errors"
	"sync"

	"lora/internal/domain"
	"lora/internal/ports"
)

// ErrAlreadyAwaiting is returned when a second wait is opened while one is pending.
var ErrAlreadyAwaiting = errors.New("a human move is already awaited")

// HumanInput is a MoveSource fed by Submit. At most one wait is outstanding;
// submissions while nothing is awaited are dropped.
type HumanInput struct {
	mu      sync.Mutex
	pending chan domain.Card
	seat    domain.Seat
	legal   []domain.Card
}

func NewHumanInput() *HumanInput {
	return &HumanInput{}
}

func (h *HumanInput) AwaitHumanMove(ctx context.Context, seat domain.Seat, legal []domain.Card) (domain.Card, error) {
	ch := make(chan domain.Card, 1)

	h.mu.Lock()
	if h.pending != nil {
		h.mu.Unlock()
		return domain.Card{}, ErrAlreadyAwaiting
	}
	h.pending, h.seat, h.legal = ch, seat, legal
	h.mu.Unlock()

	select {
	case c := <-ch:
		return c, nil
	case <-ctx.Done():
	}

	// Submit sends under h.mu, so once the wait is closed here a card is
	// either already buffered in ch or every later Submit reports false.
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == ch {
		h.pending, h.legal = nil, nil
	}
	select {
	case c := <-ch:
		return c, nil
	default:
		return domain.Card{}, ctx.Err()
	}
}

// Submit resolves the pending wait with card. It reports false, and does
// nothing, when no wait is open. A card accepted here is always returned by
// the wait, even when its context fires at the same moment.
func (h *HumanInput) Submit(card domain.Card) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return false
	}
	h.pending <- card
	h.pending, h.legal = nil, nil
	return true
}

// Pending returns the seat and legal cards of the open wait.
func (h *HumanInput) Pending() (domain.Seat, []domain.Card, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return 0, nil, false
	}
	return h.seat, append([]domain.Card(nil), h.legal...), true
}

var _ ports.MoveSource = (*HumanInput)(nil)
