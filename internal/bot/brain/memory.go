package brain

import (
	"lora/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // We don't know who has it
	StatusMine                      // In the bot's hand
	StatusPlayed                    // Already on the table
)

// GameMemory stores the bot's private "view" of the current round.
type GameMemory struct {
	// DeckStatus tracks all 32 cards. Index = Suit*8 + Rank.
	DeckStatus [domain.DeckSize]CardStatus
	// Captured marks suits whose queen has been taken in a completed trick.
	Captured [len(domain.Suits)]bool
	// Voids marks suits a seat failed to follow.
	Voids map[domain.Seat][len(domain.Suits)]bool
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{Voids: make(map[domain.Seat][len(domain.Suits)]bool)}
}

// Reset clears the memory for a new round.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	m.Captured = [len(domain.Suits)]bool{}
	m.Voids = make(map[domain.Seat][len(domain.Suits)]bool)
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have been played on the table.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusPlayed
	}
}

// UpdateHand marks hand as Mine and forgets cards that were Mine but are gone.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	for i, status := range m.DeckStatus {
		if status == StatusMine {
			m.DeckStatus[i] = StatusUnknown
		}
	}
	m.MarkMine(hand)
}

// Observe folds one applied move into memory.
func (m *GameMemory) Observe(out domain.Outcome) {
	if out.Passed {
		return
	}
	m.MarkPlayed([]domain.Card{out.Card})
	if !out.TrickComplete {
		return
	}
	lead, ok := out.Trick.LeadSuit()
	for _, p := range out.Trick.Plays {
		if p.Card.Rank == domain.Queen {
			m.Captured[p.Card.Suit] = true
		}
		if ok && p.Card.Suit != lead {
			v := m.Voids[p.Seat]
			v[lead] = true
			m.Voids[p.Seat] = v
		}
	}
}

// QueenGone reports whether the queen of s has already been captured.
func (m *GameMemory) QueenGone(s domain.Suit) bool {
	return m.Captured[s]
}

// IsBoss returns true if no higher card of the same suit is still out.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	for r := c.Rank + 1; r <= domain.Ace; r++ {
		if m.DeckStatus[cardToIndex(domain.Card{Suit: c.Suit, Rank: r})] == StatusUnknown {
			return false
		}
	}
	return true
}

// IsVoid reports whether seat has shown it holds no cards of s.
func (m *GameMemory) IsVoid(seat domain.Seat, s domain.Suit) bool {
	return m.Voids[seat][s]
}

func cardToIndex(c domain.Card) int {
	return int(c.Suit)*len(domain.Ranks) + int(c.Rank)
}
