package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"lora/internal/config"
	"lora/internal/domain"
	"lora/internal/logging"
)

// scriptedMoves answers human turns through a per-call function.
type scriptedMoves struct {
	mu    sync.Mutex
	calls int
	next  func(ctx context.Context, call int, legal []domain.Card) (domain.Card, error)
}

func (s *scriptedMoves) AwaitHumanMove(ctx context.Context, _ domain.Seat, legal []domain.Card) (domain.Card, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	return s.next(ctx, call, legal)
}

func lowestMove(_ context.Context, _ int, legal []domain.Card) (domain.Card, error) {
	c, _ := domain.Lowest(legal)
	return c, nil
}

func noDelay(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestRunner(seed int64, moves *scriptedMoves, cfg config.GameConfig) (*Runner, *recordingPresenter) {
	p := &recordingPresenter{}
	svc := NewService(rand.New(rand.NewSource(seed)), nil)
	return NewRunner(svc, p, moves, noDelay, cfg, logging.New(nil)), p
}

func TestRunnerPlaysWholeBotGame(t *testing.T) {
	r, p := newTestRunner(11, &scriptedMoves{next: lowestMove}, config.Default())
	game := newBotGame(newMemoryStore())

	if err := r.PlayGame(context.Background(), game); err != nil {
		t.Fatalf("play game: %v", err)
	}
	if !game.Ledger.Complete {
		t.Fatal("ledger should be complete")
	}
	if p.renders != 0 {
		t.Fatalf("bot hands should never be rendered, got %d renders", p.renders)
	}
	if p.boards == 0 {
		t.Fatal("board was never rendered")
	}
	if !p.saw("Game complete") {
		t.Fatalf("missing game complete notification in %v", p.notifications)
	}
}

func TestRunnerRetriesIllegalHumanMove(t *testing.T) {
	moves := &scriptedMoves{}
	moves.next = func(ctx context.Context, call int, legal []domain.Card) (domain.Card, error) {
		if call == 0 {
			for _, c := range domain.NewDeck() {
				if !domain.ContainsCard(legal, c) {
					return c, nil
				}
			}
		}
		return lowestMove(ctx, call, legal)
	}
	r, p := newTestRunner(3, moves, config.Default())
	game := newBotGame(newMemoryStore(), 1)

	if err := r.PlayRound(context.Background(), game); err != nil {
		t.Fatalf("play round: %v", err)
	}
	if !p.saw("cannot be played now") {
		t.Fatalf("illegal move was not reported: %v", p.notifications)
	}
	if moves.calls != domain.HandSize+1 {
		t.Fatalf("human was asked %d times, want %d", moves.calls, domain.HandSize+1)
	}
	if p.renders == 0 {
		t.Fatal("human hand was never rendered")
	}
}

func TestRunnerTimeoutPlaysLowestCard(t *testing.T) {
	moves := &scriptedMoves{}
	moves.next = func(ctx context.Context, call int, legal []domain.Card) (domain.Card, error) {
		if call == 0 {
			<-ctx.Done()
			return domain.Card{}, ctx.Err()
		}
		return lowestMove(ctx, call, legal)
	}
	cfg := config.Default()
	cfg.HumanTurnTimeoutSeconds = 1
	r, p := newTestRunner(5, moves, cfg)
	game := newBotGame(newMemoryStore(), 1)

	if err := r.PlayRound(context.Background(), game); err != nil {
		t.Fatalf("play round: %v", err)
	}
	if !p.saw("Time is up") {
		t.Fatalf("timeout was not reported: %v", p.notifications)
	}
	if game.Ledger.RoundIndex != 1 {
		t.Fatalf("round should be folded, round index %d", game.Ledger.RoundIndex)
	}
}

func TestRunnerInputFailureAbortsRound(t *testing.T) {
	moves := &scriptedMoves{next: func(context.Context, int, []domain.Card) (domain.Card, error) {
		return domain.Card{}, errDisconnected
	}}
	r, p := newTestRunner(9, moves, config.Default())
	game := newBotGame(newMemoryStore(), 1)

	err := r.PlayRound(context.Background(), game)
	if !errors.Is(err, ErrRoundAborted) || !errors.Is(err, errDisconnected) {
		t.Fatalf("error = %v, want aborted round caused by disconnect", err)
	}
	if game.Ledger.RoundIndex != 1 {
		t.Fatalf("aborted round should still advance the ledger, round index %d", game.Ledger.RoundIndex)
	}
	if !p.saw("round over") {
		t.Fatalf("round end was not presented: %v", p.notifications)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	moves := &scriptedMoves{next: func(ctx context.Context, _ int, _ []domain.Card) (domain.Card, error) {
		cancel()
		<-ctx.Done()
		return domain.Card{}, ctx.Err()
	}}
	r, _ := newTestRunner(13, moves, config.Default())
	game := newBotGame(newMemoryStore(), 1)

	if err := r.PlayGame(ctx, game); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if !game.Active() {
		t.Fatal("cancelled round should stay in progress")
	}
}

func TestRunnerWithHumanInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	input := NewHumanInput()
	svc := NewService(rand.New(rand.NewSource(21)), nil)
	r := NewRunner(svc, &recordingPresenter{}, input, noDelay, config.Default(), logging.New(nil))
	game := newBotGame(newMemoryStore(), 1)

	go func() {
		for ctx.Err() == nil {
			if _, legal, ok := input.Pending(); ok {
				c, _ := domain.Lowest(legal)
				input.Submit(c)
			}
			time.Sleep(time.Millisecond)
		}
	}()

	if err := r.PlayRound(ctx, game); err != nil {
		t.Fatalf("play round: %v", err)
	}
	if game.Active() {
		t.Fatal("round should be finished")
	}
}
