package bot

import (
	"fmt"

	"lora/internal/domain"
)

// Agent represents an autonomous bot player bound to one seat.
type Agent struct {
	ID       string
	Name     string
	Seat     domain.Seat
	Strategy Brain

	kind domain.RoundKind
}

// NewAgent returns an agent that picks its brain when a round starts.
func NewAgent(id, name string, seat domain.Seat) *Agent {
	return &Agent{ID: id, Name: name, Seat: seat}
}

// Play asks the agent to calculate its move for the round in progress.
func (a *Agent) Play(r domain.Round) (domain.Move, error) {
	if r.ToAct() != a.Seat {
		return domain.Move{}, fmt.Errorf("%w: %s to act, agent sits at %s", ErrNotMyTurn, r.ToAct(), a.Seat)
	}
	if a.Strategy == nil || a.kind != r.Kind() {
		if err := a.switchBrain(r.Kind()); err != nil {
			return domain.Move{}, err
		}
	}
	view := NewView(r, a.Seat)
	if len(view.Legal) == 0 {
		return domain.Move{Pass: true}, nil
	}
	return a.Strategy.CalculateMove(view)
}

// OnGameEvent notifies the agent of a game event. A RoundKind starts a new
// round and swaps in the matching brain.
func (a *Agent) OnGameEvent(event interface{}) {
	if kind, ok := event.(domain.RoundKind); ok {
		if err := a.switchBrain(kind); err != nil {
			return
		}
	}
	if a.Strategy != nil {
		a.Strategy.OnEvent(event)
	}
}

func (a *Agent) switchBrain(kind domain.RoundKind) error {
	b, err := NewBrain(kind)
	if err != nil {
		return err
	}
	a.Strategy, a.kind = b, kind
	return nil
}
