package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lora/internal/domain"
	"lora/internal/logging"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrGameComplete    = errors.New("game is complete")
	ErrRoundInProgress = errors.New("round already in progress")
	ErrNotPlaying      = errors.New("no round in progress")
	ErrNotBotSeat      = errors.New("seat is not controlled by a bot")
	ErrNoLegalMove     = errors.New("seat has no legal move")
	// ErrRoundAborted wraps the failure that forced a round over.
	ErrRoundAborted = errors.New("round aborted")
)

// Bot chooses moves for an AI seat and observes the game as it unfolds.
type Bot interface {
	Play(r domain.Round) (domain.Move, error)
	// OnGameEvent receives a domain.RoundKind when a round starts and a
	// domain.Outcome after every applied move.
	OnGameEvent(event interface{})
}

// SeatInfo describes who sits at a seat.
type SeatInfo struct {
	ID    string
	Name  string
	Human bool
}

// Game is the aggregate the sequencer drives: the persistent ledger plus the
// round currently on the table.
type Game struct {
	ID     string
	Seats  [domain.NumSeats]SeatInfo
	Bots   map[domain.Seat]Bot
	Ledger *GameLedger
	Round  domain.Round

	cycle, round int
	folded       bool
}

// NewGame seats players around ledger. Seats without a bot must be human.
func NewGame(id string, seats [domain.NumSeats]SeatInfo, bots map[domain.Seat]Bot, ledger *GameLedger) *Game {
	if bots == nil {
		bots = make(map[domain.Seat]Bot)
	}
	return &Game{ID: id, Seats: seats, Bots: bots, Ledger: ledger}
}

// Active reports whether a round is being played.
func (g *Game) Active() bool {
	return g.Round != nil && !g.Round.Over()
}

// Position returns the zero-based cycle and round of the current deal.
func (g *Game) Position() (cycle, round int) {
	return g.cycle, g.round
}

// Dealer produces four hands for a new round.
type Dealer func() ([domain.NumSeats][]domain.Card, error)

// Service contains the Lora use-cases operating on a Game.
type Service struct {
	rng    *rand.Rand
	logger runtime.Logger
	deal   Dealer
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, logger runtime.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.New(nil)
	}
	s := &Service{rng: rng, logger: logger}
	s.deal = func() ([domain.NumSeats][]domain.Card, error) { return domain.NewDeal(s.rng) }
	return s
}

// WithDealer replaces the shuffling dealer, mainly for fixed deals in tests.
func (s *Service) WithDealer(d Dealer) *Service {
	s.deal = d
	return s
}

// StartRound deals the next round of the sequence.
func (s *Service) StartRound(ctx context.Context, g *Game) ([]Event, error) {
	if g.Ledger.Complete {
		return nil, ErrGameComplete
	}
	if g.Active() {
		return nil, ErrRoundInProgress
	}

	kind := g.Ledger.CurrentKind()
	starting := g.Ledger.StartingSeat()
	hands, err := s.deal()
	if err != nil {
		return nil, fmt.Errorf("deal %s: %w", kind, err)
	}
	r, err := domain.NewRound(kind, hands, starting)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", kind, err)
	}
	g.Round = r
	g.cycle, g.round = g.Ledger.CycleIndex, g.Ledger.RoundIndex
	g.folded = false
	for _, b := range g.Bots {
		b.OnGameEvent(kind)
	}

	s.logger.Info("Round %s started (cycle %d, round %d, starting seat %s)", kind, g.cycle+1, g.round+1, starting)

	events := []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Kind:         kind,
			Cycle:        g.cycle,
			Round:        g.round,
			StartingSeat: starting,
		},
	}}
	for seat, hand := range r.Session().Hands {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: domain.Seat(seat), Hand: append([]domain.Card(nil), hand...)},
			Recipients: []domain.Seat{domain.Seat(seat)},
		})
	}

	more, err := s.settle(ctx, g)
	return append(events, more...), err
}

// PlayCard applies a card chosen for seat. Illegal or out-of-turn moves are
// rejected without changing the game.
func (s *Service) PlayCard(ctx context.Context, g *Game, seat domain.Seat, card domain.Card) ([]Event, error) {
	return s.apply(ctx, g, seat, domain.Move{Card: card})
}

// Pass applies an explicit pass. Only the building round accepts it, and only
// without a legal play.
func (s *Service) Pass(ctx context.Context, g *Game, seat domain.Seat) ([]Event, error) {
	return s.apply(ctx, g, seat, domain.Move{Pass: true})
}

// PlayBotTurn asks the bot on the acting seat for its move and applies it. A
// bot that cannot produce a legal move aborts the round.
func (s *Service) PlayBotTurn(ctx context.Context, g *Game) ([]Event, error) {
	if !g.Active() {
		return nil, ErrNotPlaying
	}
	seat := g.Round.ToAct()
	b, ok := g.Bots[seat]
	if !ok {
		return nil, ErrNotBotSeat
	}
	move, err := b.Play(g.Round)
	if err != nil {
		return s.Abort(ctx, g, fmt.Errorf("bot %s: %w", seat, err))
	}
	events, err := s.apply(ctx, g, seat, move)
	if errors.Is(err, domain.ErrIllegalMove) || errors.Is(err, domain.ErrPassNotAllowed) {
		return s.Abort(ctx, g, fmt.Errorf("bot %s chose %v: %w", seat, move, err))
	}
	return events, err
}

// AutoPlay plays the lowest legal card for seat. It backs the human turn
// timeout.
func (s *Service) AutoPlay(ctx context.Context, g *Game, seat domain.Seat) ([]Event, error) {
	if !g.Active() {
		return nil, ErrNotPlaying
	}
	card, ok := domain.Lowest(g.Round.LegalMoves(seat))
	if !ok {
		return nil, ErrNoLegalMove
	}
	s.logger.Info("Auto-playing %s for %s", card, seat)
	return s.apply(ctx, g, seat, domain.Move{Card: card})
}

// Abort forces the current round over with cause and folds the partial scores
// into the ledger. The returned error wraps both ErrRoundAborted and cause.
func (s *Service) Abort(ctx context.Context, g *Game, cause error) ([]Event, error) {
	if g.Round == nil {
		return nil, ErrNotPlaying
	}
	s.logger.Error("Aborting %s round: %v", g.Round.Kind(), cause)
	g.Round.Abort(cause)
	events, err := s.finishRound(ctx, g)
	if err != nil {
		return events, err
	}
	return events, fmt.Errorf("%w: %w", ErrRoundAborted, cause)
}

// NewGame clears the ledger so the next StartRound begins cycle 1 again.
func (s *Service) NewGame(ctx context.Context, g *Game) ([]Event, error) {
	if g.Active() {
		return nil, ErrRoundInProgress
	}
	if err := g.Ledger.Reset(ctx); err != nil {
		return nil, err
	}
	g.Round = nil
	g.folded = false
	s.logger.Info("Game %s reset", g.ID)
	return []Event{{Kind: EventGameReset}}, nil
}

// Turn reports the acting seat and its legal cards.
func (s *Service) Turn(g *Game) (domain.Seat, []domain.Card, bool) {
	if !g.Active() {
		return 0, nil, false
	}
	seat := g.Round.ToAct()
	return seat, g.Round.LegalMoves(seat), true
}

func (s *Service) apply(ctx context.Context, g *Game, seat domain.Seat, m domain.Move) ([]Event, error) {
	if !g.Active() {
		return nil, ErrNotPlaying
	}
	out, err := g.Round.Apply(seat, m)
	if err != nil {
		if domain.IsDefect(err) {
			return s.Abort(ctx, g, err)
		}
		return nil, err
	}
	g.Round.Session().AwaitingHuman = false
	for _, b := range g.Bots {
		b.OnGameEvent(out)
	}
	events := s.outcomeEvents(g, out, false)
	more, err := s.settle(ctx, g)
	return append(events, more...), err
}

// settle runs forced moves until a seat has a real choice or the round ends.
// In the building round a seat without a legal play passes automatically.
func (s *Service) settle(ctx context.Context, g *Game) ([]Event, error) {
	var events []Event
	for !g.Round.Over() {
		seat := g.Round.ToAct()
		legal := g.Round.LegalMoves(seat)
		if len(legal) > 0 {
			g.Round.Session().AwaitingHuman = g.Seats[seat].Human
			events = append(events, Event{
				Kind:    EventTurn,
				Payload: TurnPayload{Seat: seat, Human: g.Seats[seat].Human, Legal: legal},
			})
			return events, nil
		}
		if g.Round.Kind().IsTrickRound() {
			more, err := s.Abort(ctx, g, &domain.DefectError{Op: "turn", Detail: seat.String() + " has no playable card"})
			return append(events, more...), err
		}
		out, err := g.Round.Apply(seat, domain.Move{Pass: true})
		if err != nil {
			more, aerr := s.Abort(ctx, g, err)
			return append(events, more...), aerr
		}
		for _, b := range g.Bots {
			b.OnGameEvent(out)
		}
		events = append(events, s.outcomeEvents(g, out, true)...)
	}
	more, err := s.finishRound(ctx, g)
	return append(events, more...), err
}

func (s *Service) outcomeEvents(g *Game, out domain.Outcome, auto bool) []Event {
	next := domain.Seat(-1)
	if !g.Round.Over() {
		next = g.Round.ToAct()
	}

	var events []Event
	if out.Passed {
		events = append(events, Event{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: out.Seat, NextSeat: next, Auto: auto},
		})
	} else {
		events = append(events, Event{
			Kind:    EventCardPlayed,
			Payload: CardPlayedPayload{Seat: out.Seat, Card: out.Card, NextSeat: next},
		})
	}
	if out.TrickComplete {
		events = append(events, Event{
			Kind:    EventTrickWon,
			Payload: TrickWonPayload{Winner: out.Winner, Trick: out.Trick, Points: out.Points},
		})
	}
	if out.Finished {
		events = append(events, Event{
			Kind:    EventPlayerFinished,
			Payload: PlayerFinishedPayload{Seat: out.Seat, Place: out.Place, Score: domain.FinishScores[out.Place-1]},
		})
	}
	return events
}

// finishRound folds the round into the ledger once and persists it.
func (s *Service) finishRound(ctx context.Context, g *Game) ([]Event, error) {
	if g.folded {
		return nil, nil
	}
	g.folded = true

	sess := g.Round.Session()
	if err := g.Ledger.AddRound(sess.Scores); err != nil {
		return nil, err
	}

	payload := RoundEndedPayload{
		Kind:        g.Round.Kind(),
		Scores:      sess.Scores,
		GrandTotals: g.Ledger.GrandTotals,
	}
	if b, ok := g.Round.(*domain.BuildingRound); ok {
		payload.Deadlock = b.Deadlocked()
	}
	if sess.Err != nil {
		payload.Aborted = sess.Err.Error()
	}
	events := []Event{{Kind: EventRoundEnded, Payload: payload}}
	s.logger.Info("Round %s ended with scores %v, totals %v", payload.Kind, payload.Scores, payload.GrandTotals)

	if g.Ledger.Complete {
		winners := g.Ledger.Winners()
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{GrandTotals: g.Ledger.GrandTotals, Winners: winners},
		})
		s.logger.Info("Game %s complete, winners %v", g.ID, winners)
	}

	if err := g.Ledger.Save(ctx); err != nil {
		return events, fmt.Errorf("save ledger: %w", err)
	}
	return events, nil
}
