package ports

import (
	"context"
	"time"

	"lora/internal/domain"
)

// BoardView is a read-only snapshot of the table handed to the presentation layer.
type BoardView struct {
	Kind        domain.RoundKind
	Cycle       int
	Round       int
	ToAct       domain.Seat
	Trick       *domain.Trick
	Spans       map[domain.Suit]domain.Span
	RoundScores [domain.NumSeats]int
	GrandTotals [domain.NumSeats]int
	HandSizes   [domain.NumSeats]int
}

// Presenter receives one-way notifications from the game. Implementations
// must not call back into the game.
type Presenter interface {
	Render(seat domain.Seat, hand []domain.Card)
	RenderBoard(view BoardView)
	ShowNotification(message string, duration time.Duration)
}

// MoveSource supplies a human seat's card choice. AwaitHumanMove blocks until a
// card is selected or ctx is done.
type MoveSource interface {
	AwaitHumanMove(ctx context.Context, seat domain.Seat, legal []domain.Card) (domain.Card, error)
}
