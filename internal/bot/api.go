package bot

import (
	"errors"

	"lora/internal/domain"
)

var ErrNotMyTurn = errors.New("bot asked to move out of turn")

// Brain is the interface that all round strategies must implement.
type Brain interface {
	CalculateMove(view View) (domain.Move, error)
	OnEvent(event interface{})
}

// View is the slice of round state a bot may look at on its turn.
type View struct {
	Kind  domain.RoundKind
	Seat  domain.Seat
	Hand  []domain.Card
	Legal []domain.Card

	// Trick and TrickNumber are set in trick rounds.
	Trick       *domain.Trick
	TrickNumber int
	// Board is set in the building round.
	Board *domain.Board
}

// NewView snapshots r from seat's point of view.
func NewView(r domain.Round, seat domain.Seat) View {
	v := View{
		Kind:  r.Kind(),
		Seat:  seat,
		Hand:  append([]domain.Card(nil), r.Session().Hands[seat]...),
		Legal: r.LegalMoves(seat),
	}
	switch round := r.(type) {
	case *domain.TrickRound:
		t := round.Trick()
		v.Trick = &t
		v.TrickNumber = round.TrickNumber()
	case *domain.BuildingRound:
		b := round.Board()
		v.Board = &b
	}
	return v
}

// Leading reports whether the bot opens the current trick.
func (v View) Leading() bool {
	return v.Trick == nil || len(v.Trick.Plays) == 0
}

// Following reports whether the bot holds the lead suit of the trick.
func (v View) Following() bool {
	if v.Trick == nil {
		return false
	}
	lead, ok := v.Trick.LeadSuit()
	return ok && domain.HasSuit(v.Hand, lead)
}
