package bot

import (
	"lora/internal/bot/brain"
	"lora/internal/domain"
)

// QueensBot remembers which queens have been captured and which suits each
// seat has run out of. Suits whose queen is gone are safe to lead and
// discard; otherwise it tries not to win a trick while a queen is still out.
type QueensBot struct {
	Memory *brain.GameMemory
}

func NewQueensBot() *QueensBot {
	return &QueensBot{Memory: brain.NewMemory()}
}

func (b *QueensBot) CalculateMove(view View) (domain.Move, error) {
	if len(view.Legal) == 0 {
		return domain.Move{Pass: true}, nil
	}
	b.Memory.UpdateHand(view.Hand)

	var c domain.Card
	switch {
	case view.Leading():
		c = b.lead(view)
	case view.Following():
		c = b.follow(view)
	default:
		c = b.discard(view)
	}
	return play(c), nil
}

func (b *QueensBot) OnEvent(event interface{}) {
	switch e := event.(type) {
	case domain.RoundKind:
		b.Memory.Reset()
	case domain.Outcome:
		b.Memory.Observe(e)
	}
}

func (b *QueensBot) safe(c domain.Card) bool {
	return b.Memory.QueenGone(c.Suit)
}

// opponentVoid reports whether another seat is known to hold no cards of s
// and could discard a queen onto a trick in it.
func (b *QueensBot) opponentVoid(view View, s domain.Suit) bool {
	for i := 0; i < domain.NumSeats; i++ {
		seat := domain.Seat(i)
		if seat != view.Seat && b.Memory.IsVoid(seat, s) {
			return true
		}
	}
	return false
}

func (b *QueensBot) lead(view View) domain.Card {
	if c, ok := domain.Lowest(domain.Filter(view.Legal, b.safe)); ok {
		return c
	}
	// High cards in an open suit may end up capturing its queen.
	noQueens := domain.Filter(view.Legal, func(c domain.Card) bool { return c.Rank < domain.Queen })
	covered := domain.Filter(noQueens, func(c domain.Card) bool { return !b.opponentVoid(view, c.Suit) })
	if c, ok := domain.Lowest(domain.Filter(covered, func(c domain.Card) bool { return !b.Memory.IsBoss(c) })); ok {
		return c
	}
	if c, ok := domain.Lowest(covered); ok {
		return c
	}
	if c, ok := domain.Lowest(noQueens); ok {
		return c
	}
	c, _ := domain.Lowest(view.Legal)
	return c
}

func (b *QueensBot) follow(view View) domain.Card {
	lead, _ := view.Trick.LeadSuit()
	if b.Memory.QueenGone(lead) {
		c, _ := domain.Lowest(view.Legal)
		return c
	}
	best, _ := view.Trick.CurrentWinner()
	under := domain.Filter(view.Legal, func(c domain.Card) bool { return c.Rank < best.Card.Rank })
	if c, ok := domain.Highest(under); ok {
		return c
	}
	// Forced to win: avoid spending our own queen on it.
	if c, ok := domain.Lowest(domain.Filter(view.Legal, func(c domain.Card) bool { return c.Rank != domain.Queen })); ok {
		return c
	}
	c, _ := domain.Lowest(view.Legal)
	return c
}

func (b *QueensBot) discard(view View) domain.Card {
	queens := domain.Filter(view.Legal, func(c domain.Card) bool { return c.Rank == domain.Queen })
	if c, ok := domain.Highest(queens); ok {
		return c
	}
	unsafe := domain.Filter(view.Legal, func(c domain.Card) bool { return !b.safe(c) })
	// A boss card in an open suit would win a later trick.
	if c, ok := domain.Highest(domain.Filter(unsafe, b.Memory.IsBoss)); ok {
		return c
	}
	if c, ok := domain.Highest(unsafe); ok {
		return c
	}
	c, _ := domain.Highest(view.Legal)
	return c
}
