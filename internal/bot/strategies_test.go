package bot

import (
	"strings"
	"testing"

	"lora/internal/domain"
)

func cards(t *testing.T, list string) []domain.Card {
	t.Helper()
	var out []domain.Card
	for _, f := range strings.Fields(list) {
		c, err := domain.ParseCard(f)
		if err != nil {
			t.Fatalf("parse %s: %v", f, err)
		}
		out = append(out, c)
	}
	return out
}

// trickView seats the bot after the plays already made by seats 0, 1, ...
func trickView(t *testing.T, kind domain.RoundKind, hand, plays string, trickNumber int) View {
	t.Helper()
	trick := domain.NewTrick(0)
	for i, c := range cards(t, plays) {
		trick.Plays = append(trick.Plays, domain.Play{Seat: domain.Seat(i), Card: c})
	}
	v, err := domain.VariantFor(kind)
	if err != nil {
		t.Fatalf("variant: %v", err)
	}
	h := cards(t, hand)
	return View{
		Kind:        kind,
		Seat:        trick.ToAct(),
		Hand:        h,
		Legal:       domain.LegalCards(v, h, &trick, trickNumber),
		Trick:       &trick,
		TrickNumber: trickNumber,
	}
}

func TestTrickBrains(t *testing.T) {
	tests := []struct {
		name        string
		brain       Brain
		kind        domain.RoundKind
		hand        string
		plays       string
		trickNumber int
		want        string
	}{
		{"tricks leads lowest", &TricksBot{}, domain.RoundTricks, "AS 8D 9C", "", 0, "8D"},
		{"tricks follows lowest", &TricksBot{}, domain.RoundTricks, "AS 10S 8D", "JS", 3, "10S"},

		{"hearts leads lowest non-heart", &HeartsBot{}, domain.RoundHearts, "7H 9S 8D", "", 1, "8D"},
		{"hearts leads heart when nothing else", &HeartsBot{}, domain.RoundHearts, "KH 9H", "", 1, "9H"},
		{"hearts follows lowest", &HeartsBot{}, domain.RoundHearts, "AS 7S 9H", "10S", 1, "7S"},
		{"hearts discards highest non-heart", &HeartsBot{}, domain.RoundHearts, "AH 9C KD", "10S", 1, "KD"},
		{"hearts discards highest heart last", &HeartsBot{}, domain.RoundHearts, "9H AH", "10S", 1, "AH"},

		{"king sheds K♥ on discard", &KingBot{}, domain.RoundKing, "AC KH 7D", "10S", 2, "KH"},
		{"king sheds K♥ under A♥", &KingBot{}, domain.RoundKing, "7H KH", "AH", 2, "KH"},
		{"king keeps K♥ when it would win", &KingBot{}, domain.RoundKing, "KH 7H", "9H", 2, "7H"},
		{"king opens with lone high card", &KingBot{}, domain.RoundKing, "7D 8D AC 9H 10H", "", 0, "AC"},
		{"king leads low after trick one", &KingBot{}, domain.RoundKing, "7D 8D AC 9H 10H", "", 2, "7D"},
		{"king avoids heart lead on trick one", &KingBot{}, domain.RoundKing, "7H 8D 9D", "", 0, "8D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := trickView(t, tt.kind, tt.hand, tt.plays, tt.trickNumber)
			move, err := tt.brain.CalculateMove(view)
			if err != nil {
				t.Fatalf("CalculateMove failed: %v", err)
			}
			if move.Pass {
				t.Fatal("bot passed in a trick round")
			}
			if got := move.Card.String(); got != cards(t, tt.want)[0].String() {
				t.Errorf("played %s, want %s", got, tt.want)
			}
			if !domain.ContainsCard(view.Legal, move.Card) {
				t.Errorf("played illegal %s (legal %v)", move.Card, view.Legal)
			}
		})
	}
}

func TestQueensBot(t *testing.T) {
	tests := []struct {
		name     string
		captured []domain.Suit
		voids    map[domain.Seat]domain.Suit
		played   string
		hand     string
		plays    string
		want     string
	}{
		{name: "leads from a safe suit", captured: []domain.Suit{domain.Diamonds}, hand: "KD 8S 9C", want: "KD"},
		{name: "leads low below the queens", hand: "AS 9C QD", want: "9C"},
		{name: "avoids leading where a seat is void", voids: map[domain.Seat]domain.Suit{2: domain.Clubs}, hand: "8C 9D", want: "9D"},
		{name: "leads into a void when nothing else", voids: map[domain.Seat]domain.Suit{1: domain.Clubs}, hand: "8C QD", want: "8C"},
		{name: "ignores its own void", voids: map[domain.Seat]domain.Suit{0: domain.Clubs}, hand: "8C 9D", want: "8C"},
		{name: "avoids leading a boss card", played: "9S 10S JS KS AS", hand: "8S QS 9D", want: "9D"},
		{name: "ducks under the winner", hand: "7S 10S AS", plays: "JS", want: "10S"},
		{name: "wins without spending its queen", hand: "QS AS", plays: "JS", want: "AS"},
		{name: "plays low in a safe suit", captured: []domain.Suit{domain.Spades}, hand: "8S 10S", plays: "JS", want: "8S"},
		{name: "dumps a queen on discard", hand: "QC 7D AD", plays: "10S", want: "QC"},
		{name: "discards from an unsafe suit", captured: []domain.Suit{domain.Diamonds}, hand: "AD 9C", plays: "10S", want: "9C"},
		{name: "discards a boss card first", played: "AH", hand: "KC KH 7D", plays: "10S", want: "KH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewQueensBot()
			for _, s := range tt.captured {
				b.Memory.Captured[s] = true
			}
			for seat, s := range tt.voids {
				v := b.Memory.Voids[seat]
				v[s] = true
				b.Memory.Voids[seat] = v
			}
			if tt.played != "" {
				b.Memory.MarkPlayed(cards(t, tt.played))
			}
			view := trickView(t, domain.RoundQueens, tt.hand, tt.plays, 1)
			move, err := b.CalculateMove(view)
			if err != nil {
				t.Fatalf("CalculateMove failed: %v", err)
			}
			if move.Card != cards(t, tt.want)[0] {
				t.Errorf("played %s, want %s", move.Card, tt.want)
			}
		})
	}
}

func TestQueensBotForgetsBetweenRounds(t *testing.T) {
	b := NewQueensBot()
	b.Memory.Captured[domain.Spades] = true
	b.OnEvent(domain.RoundQueens)
	if b.Memory.QueenGone(domain.Spades) {
		t.Fatal("round start should reset memory")
	}
}

func TestFactoryCoversEveryRound(t *testing.T) {
	for _, kind := range domain.RoundSequence {
		if _, err := NewBrain(kind); err != nil {
			t.Errorf("NewBrain(%s): %v", kind, err)
		}
	}
	if _, err := NewBrain("poker"); err == nil {
		t.Error("unknown round should fail")
	}
}
