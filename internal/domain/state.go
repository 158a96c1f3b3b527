package domain

import (
	"fmt"
	"strings"
)

// NumSeats is the fixed table size.
const NumSeats = 4

// HandSize is the number of cards each seat receives per round.
const HandSize = 8

// Suit is a card suit. The declaration order is also the board/tie-break order.
type Suit int32

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in declaration order.
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank is a card rank. Seven is the lowest, Ace the highest.
type Rank int32

const (
	Seven Rank = iota
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from low to high.
var Ranks = [8]Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (r Rank) String() string {
	switch r {
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the eight ranks in the deck.
func (r Rank) Valid() bool { return r >= Seven && r <= Ace }

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

var (
	// KingOfHearts ends the king round the moment it is taken.
	KingOfHearts = Card{Suit: Hearts, Rank: King}
	// JackOfSpades must open the building round.
	JackOfSpades = Card{Suit: Spades, Rank: Jack}
)

// ParseCard reads notations like "K♥", "KH", "10d" or "7s".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	runes := []rune(s)
	suitPart := strings.ToUpper(string(runes[len(runes)-1]))
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))

	var suit Suit
	switch suitPart {
	case "♠", "S":
		suit = Spades
	case "♥", "H":
		suit = Hearts
	case "♦", "D":
		suit = Diamonds
	case "♣", "C":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}

	for _, r := range Ranks {
		if r.String() == rankPart {
			return Card{Suit: suit, Rank: r}, nil
		}
	}
	if rankPart == "T" {
		return Card{Suit: suit, Rank: Ten}, nil
	}
	return Card{}, fmt.Errorf("invalid rank in %q", s)
}

// Seat identifies one of the four players. Seat 0 is player1.
type Seat int

// Next returns the seat to the left, wrapping after the fourth player.
func (s Seat) Next() Seat { return (s + 1) % NumSeats }

// Valid reports whether s is a seat at the table.
func (s Seat) Valid() bool { return s >= 0 && s < NumSeats }

func (s Seat) String() string { return fmt.Sprintf("player%d", int(s)+1) }

// RoundKind names one of the five rounds in a cycle.
type RoundKind string

const (
	// RoundTricks scores one point per trick taken.
	RoundTricks RoundKind = "tricks"
	// RoundHearts scores one point per heart taken.
	RoundHearts RoundKind = "hearts"
	// RoundQueens scores two points per queen taken.
	RoundQueens RoundKind = "queens"
	// RoundKing scores sixteen points for the King of Hearts.
	RoundKing RoundKind = "king"
	// RoundSolitaire is the non-trick building round.
	RoundSolitaire RoundKind = "solitaire"
)

// RoundSequence is the fixed order of rounds inside a cycle.
var RoundSequence = []RoundKind{RoundTricks, RoundHearts, RoundQueens, RoundKing, RoundSolitaire}

// IsTrickRound reports whether the round is played in tricks.
func (k RoundKind) IsTrickRound() bool {
	switch k {
	case RoundTricks, RoundHearts, RoundQueens, RoundKing:
		return true
	default:
		return false
	}
}

// Session is the round-local state owned by the sequencer and shared by
// reference with the round engine. It is reset every time a round begins.
type Session struct {
	Kind            RoundKind
	StartingSeat    Seat
	Leader          Seat
	Hands           [NumSeats][]Card
	Scores          [NumSeats]int
	Over            bool
	TrickInProgress bool
	AwaitingHuman   bool
	// Err records the failure that forced the round over, if any.
	Err error
}

// HandsEmpty reports whether every seat has played out its hand.
func (s *Session) HandsEmpty() bool {
	for _, h := range s.Hands {
		if len(h) > 0 {
			return false
		}
	}
	return true
}
