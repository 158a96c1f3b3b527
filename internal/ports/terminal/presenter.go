// Package terminal renders a game on a text stream and reads human moves
// from one, for the simulate command.
package terminal

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"lora/internal/domain"
	"lora/internal/ports"
)

// Presenter writes the table to w as plain lines. It is safe for concurrent use.
type Presenter struct {
	mu    sync.Mutex
	w     io.Writer
	names [domain.NumSeats]string
}

// NewPresenter returns a presenter labelling seats with names; empty names
// fall back to "playerN".
func NewPresenter(w io.Writer, names [domain.NumSeats]string) *Presenter {
	for i, n := range names {
		if n == "" {
			names[i] = domain.Seat(i).String()
		}
	}
	return &Presenter{w: w, names: names}
}

func (p *Presenter) Render(seat domain.Seat, hand []domain.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s hand: %s\n", p.names[seat], JoinCards(hand))
}

func (p *Presenter) RenderBoard(view ports.BoardView) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "[cycle %d round %d %s] to act: %s\n", view.Cycle+1, view.Round+1, view.Kind, p.names[view.ToAct])
	if view.Trick != nil && len(view.Trick.Plays) > 0 {
		plays := make([]string, len(view.Trick.Plays))
		for i, pl := range view.Trick.Plays {
			plays[i] = fmt.Sprintf("%s:%s", p.names[pl.Seat], pl.Card)
		}
		fmt.Fprintf(p.w, "  trick: %s\n", strings.Join(plays, " "))
	}
	if len(view.Spans) > 0 {
		suits := make([]domain.Suit, 0, len(view.Spans))
		for s := range view.Spans {
			suits = append(suits, s)
		}
		sort.Slice(suits, func(i, j int) bool { return suits[i] < suits[j] })
		for _, s := range suits {
			span := view.Spans[s]
			fmt.Fprintf(p.w, "  %s: %s..%s\n", s, span.Low, span.High)
		}
	}
	fmt.Fprintf(p.w, "  round %v  total %v  cards %v\n", view.RoundScores, view.GrandTotals, view.HandSizes)
}

func (p *Presenter) ShowNotification(message string, _ time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, ">> %s\n", message)
}

// JoinCards formats cards separated by spaces.
func JoinCards(cards []domain.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return strings.Join(out, " ")
}

var _ ports.Presenter = (*Presenter)(nil)
