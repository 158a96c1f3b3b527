package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lora/internal/domain"
	"lora/internal/ports"
	"lora/internal/ports/memory"
)

// lowestBot plays the lowest legal card, or passes when it has none.
type lowestBot struct {
	seat   domain.Seat
	events int
	err    error
}

func (b *lowestBot) Play(r domain.Round) (domain.Move, error) {
	if b.err != nil {
		return domain.Move{}, b.err
	}
	card, ok := domain.Lowest(r.LegalMoves(b.seat))
	if !ok {
		return domain.Move{Pass: true}, nil
	}
	return domain.Move{Card: card}, nil
}

func (b *lowestBot) OnGameEvent(interface{}) { b.events++ }

// illegalBot always tries a card it does not hold.
type illegalBot struct{}

func (illegalBot) Play(domain.Round) (domain.Move, error) {
	return domain.Move{Card: domain.Card{Suit: domain.Clubs, Rank: domain.Seven}}, nil
}
func (illegalBot) OnGameEvent(interface{}) {}

type recordingPresenter struct {
	mu            sync.Mutex
	renders       int
	boards        int
	notifications []string
}

func (p *recordingPresenter) Render(domain.Seat, []domain.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders++
}

func (p *recordingPresenter) RenderBoard(ports.BoardView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boards++
}

func (p *recordingPresenter) ShowNotification(msg string, _ time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, msg)
}

func (p *recordingPresenter) saw(substr string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.notifications {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

// newBotGame seats four lowestBots, or humans for the given seats.
func newBotGame(store ports.KeyValueStore, humans ...domain.Seat) *Game {
	var seats [domain.NumSeats]SeatInfo
	bots := make(map[domain.Seat]Bot)
	for i := range seats {
		seat := domain.Seat(i)
		seats[i] = SeatInfo{ID: seat.String(), Name: seat.String()}
		bots[seat] = &lowestBot{seat: seat}
	}
	for _, h := range humans {
		seats[h].Human = true
		delete(bots, h)
	}
	return NewGame("test-game", seats, bots, NewGameLedger(store))
}

func fixedDealer(t *testing.T, hands [domain.NumSeats]string) Dealer {
	t.Helper()
	var out [domain.NumSeats][]domain.Card
	for i, list := range hands {
		for _, f := range strings.Fields(list) {
			c, err := domain.ParseCard(f)
			if err != nil {
				t.Fatalf("parse %s: %v", f, err)
			}
			out[i] = append(out[i], c)
		}
	}
	return func() ([domain.NumSeats][]domain.Card, error) {
		var cp [domain.NumSeats][]domain.Card
		for i := range out {
			cp[i] = append([]domain.Card(nil), out[i]...)
		}
		return cp, nil
	}
}

func mustCard(t *testing.T, s string) domain.Card {
	t.Helper()
	c, err := domain.ParseCard(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return c
}

func eventsOf(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// kingDeal gives player3 (seat 2) the aces and player4 (seat 3) the K♥.
var kingDeal = [domain.NumSeats]string{
	"7S 8S 7D 8D 7C 8C 7H 8H",
	"9S 10S 9D 10D 9C 10C 9H 10H",
	"JS AS JD AD JC AC JH AH",
	"QS KS QD KD QC KC QH KH",
}

var errDisconnected = errors.New("client disconnected")

func newMemoryStore() *memory.Store { return memory.NewStore() }
