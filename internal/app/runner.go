package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lora/internal/config"
	"lora/internal/domain"
	"lora/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// DelayFunc pauses for d or until ctx is done.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Sleep is the wall clock DelayFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner drives a Game to completion, blocking on AI pacing and human input.
// It is the counterpart of the tick-driven Nakama match loop.
type Runner struct {
	svc       *Service
	presenter ports.Presenter
	moves     ports.MoveSource
	delay     DelayFunc
	cfg       config.GameConfig
	logger    runtime.Logger
}

func NewRunner(svc *Service, presenter ports.Presenter, moves ports.MoveSource, delay DelayFunc, cfg config.GameConfig, logger runtime.Logger) *Runner {
	if delay == nil {
		delay = Sleep
	}
	return &Runner{svc: svc, presenter: presenter, moves: moves, delay: delay, cfg: cfg, logger: logger}
}

// PlayGame plays rounds until the ledger is complete. Aborted rounds are
// logged and the game moves on; cancellation and store failures stop it.
func (r *Runner) PlayGame(ctx context.Context, g *Game) error {
	for !g.Ledger.Complete {
		err := r.PlayRound(ctx, g)
		if errors.Is(err, ErrRoundAborted) {
			r.logger.Warn("PlayGame: %v", err)
			continue
		}
		if err != nil {
			return err
		}
		if !g.Ledger.Complete {
			if err := r.delay(ctx, r.cfg.RoundPause()); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlayRound deals the next round and plays it out.
func (r *Runner) PlayRound(ctx context.Context, g *Game) error {
	events, err := r.svc.StartRound(ctx, g)
	r.present(g, events)
	if err != nil {
		return err
	}
	for g.Active() {
		seat := g.Round.ToAct()
		if g.Seats[seat].Human {
			events, err = r.humanTurn(ctx, g, seat)
		} else {
			if err := r.delay(ctx, r.cfg.ThinkingDelay()); err != nil {
				return err
			}
			events, err = r.svc.PlayBotTurn(ctx, g)
		}
		r.present(g, events)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) humanTurn(ctx context.Context, g *Game, seat domain.Seat) ([]Event, error) {
	legal := g.Round.LegalMoves(seat)
	for {
		wait, cancel := ctx, context.CancelFunc(func() {})
		if timeout := r.cfg.HumanTurnTimeout(); timeout > 0 {
			wait, cancel = context.WithTimeout(ctx, timeout)
		}
		card, err := r.moves.AwaitHumanMove(wait, seat, legal)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				r.notify("Time is up, playing your lowest card")
				return r.svc.AutoPlay(ctx, g, seat)
			}
			return r.svc.Abort(ctx, g, fmt.Errorf("human move for %s: %w", seat, err))
		}

		events, err := r.svc.PlayCard(ctx, g, seat, card)
		if errors.Is(err, domain.ErrIllegalMove) {
			r.notify(fmt.Sprintf("%s cannot be played now", card))
			continue
		}
		return events, err
	}
}

func (r *Runner) notify(msg string) {
	r.presenter.ShowNotification(msg, r.cfg.NotificationDuration())
}
