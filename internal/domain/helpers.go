package domain

import (
	"errors"
	"strconv"
)

var (
	ErrRoundOver       = errors.New("round is over")
	ErrNotYourTurn     = errors.New("not this seat's turn")
	ErrIllegalMove     = errors.New("card is not a legal play")
	ErrPassNotAllowed  = errors.New("pass is only allowed without a legal play")
	ErrUnknownRound    = errors.New("unknown round kind")
	ErrNoJackOfSpades  = errors.New("no seat holds the jack of spades")
	ErrSuitNotOpened   = errors.New("suit has not been opened")
	ErrNotAdjacentRank = errors.New("card does not extend the suit")
)

// DefectError reports an internal consistency failure. Defects force the
// current round over instead of crashing the process.
type DefectError struct {
	Op     string
	Detail string
}

func (e *DefectError) Error() string { return "defect in " + e.Op + ": " + e.Detail }

// IsDefect reports whether err carries a DefectError.
func IsDefect(err error) bool {
	var d *DefectError
	return errors.As(err, &d)
}

// RemoveCard removes exactly one matching card from the hand. Removing a card
// the hand does not hold is a defect.
func RemoveCard(hand []Card, card Card) ([]Card, error) {
	for i, c := range hand {
		if c == card {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), nil
		}
	}
	return hand, &DefectError{Op: "remove card", Detail: card.String() + " not in hand"}
}

// ContainsCard reports whether the hand holds card.
func ContainsCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand holds any card of suit s.
func HasSuit(hand []Card, s Suit) bool {
	for _, c := range hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// CardsOfSuit returns the cards of suit s in hand order.
func CardsOfSuit(hand []Card, s Suit) []Card {
	var out []Card
	for _, c := range hand {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}

// AllOfSuit reports whether every card in a non-empty hand is of suit s.
func AllOfSuit(hand []Card, s Suit) bool {
	if len(hand) == 0 {
		return false
	}
	for _, c := range hand {
		if c.Suit != s {
			return false
		}
	}
	return true
}

// Lowest returns the lowest-ranked card, breaking ties by suit order.
func Lowest(cards []Card) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
		}
	}
	return best, true
}

// Highest returns the highest-ranked card, breaking ties by suit order.
func Highest(cards []Card) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best = c
		}
	}
	return best, true
}

// Filter returns the cards for which keep returns true.
func Filter(cards []Card, keep func(Card) bool) []Card {
	var out []Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// CountWhere counts the cards for which match returns true.
func CountWhere(cards []Card, match func(Card) bool) int {
	n := 0
	for _, c := range cards {
		if match(c) {
			n++
		}
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }
