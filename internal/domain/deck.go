package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in a fresh deck (ranks 7..A in four suits).
const DeckSize = 32

// NewDeck returns a sorted 32-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck shuffles the deck in place with a uniform Fisher-Yates shuffle.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// Deal distributes the deck round-robin starting from player1 until every
// seat holds HandSize cards.
func Deal(deck []Card) ([NumSeats][]Card, error) {
	var hands [NumSeats][]Card
	if len(deck) != DeckSize {
		return hands, &DefectError{Op: "deal", Detail: "deck holds " + itoa(len(deck)) + " cards"}
	}
	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i, c := range deck {
		seat := i % NumSeats
		hands[seat] = append(hands[seat], c)
	}
	for i := range hands {
		SortHand(hands[i])
	}
	return hands, nil
}

// NewDeal builds, shuffles and deals a fresh deck.
func NewDeal(rng *rand.Rand) ([NumSeats][]Card, error) {
	deck := NewDeck()
	ShuffleDeck(deck, rng)
	return Deal(deck)
}

// SortHand orders a hand by suit, then ascending rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int32 {
	return int32(c.Suit)*8 + int32(c.Rank)
}
