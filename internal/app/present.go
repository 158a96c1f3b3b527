package app

import (
	"fmt"
	"strings"

	"lora/internal/domain"
	"lora/internal/ports"
)

// Snapshot builds the presenter view of the table.
func Snapshot(g *Game) ports.BoardView {
	cycle, round := g.Position()
	view := ports.BoardView{
		Cycle:       cycle,
		Round:       round,
		GrandTotals: g.Ledger.GrandTotals,
	}
	if g.Round == nil {
		return view
	}
	sess := g.Round.Session()
	view.Kind = g.Round.Kind()
	view.ToAct = g.Round.ToAct()
	view.RoundScores = sess.Scores
	for seat, h := range sess.Hands {
		view.HandSizes[seat] = len(h)
	}
	switch r := g.Round.(type) {
	case *domain.TrickRound:
		t := r.Trick()
		view.Trick = &t
	case *domain.BuildingRound:
		b := r.Board()
		view.Spans = b.Spans()
	}
	return view
}

// SeatName returns the display name of seat, falling back to "player N".
func SeatName(g *Game, seat domain.Seat) string {
	if seat.Valid() && g.Seats[seat].Name != "" {
		return g.Seats[seat].Name
	}
	return seat.String()
}

// present forwards events to the presenter. Only human hands are rendered.
func (r *Runner) present(g *Game, events []Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case RoundStartedPayload:
			r.notify(fmt.Sprintf("Cycle %d, round %d: %s", p.Cycle+1, p.Round+1, p.Kind))
			r.presenter.RenderBoard(Snapshot(g))
		case HandDealtPayload:
			if g.Seats[p.Seat].Human {
				r.presenter.Render(p.Seat, p.Hand)
			}
		case TurnPayload:
			if p.Human {
				r.presenter.Render(p.Seat, g.Round.Session().Hands[p.Seat])
			}
		case CardPlayedPayload, TurnPassedPayload:
			r.presenter.RenderBoard(Snapshot(g))
		case TrickWonPayload:
			r.notify(fmt.Sprintf("%s takes the trick (+%d)", SeatName(g, p.Winner), p.Points))
		case PlayerFinishedPayload:
			r.notify(fmt.Sprintf("%s finished %s (%d)", SeatName(g, p.Seat), ordinal(p.Place), p.Score))
		case RoundEndedPayload:
			msg := fmt.Sprintf("%s round over: %v", p.Kind, p.Scores)
			if p.Deadlock {
				msg += " (no one could play)"
			}
			r.notify(msg)
			r.presenter.RenderBoard(Snapshot(g))
		case GameEndedPayload:
			names := make([]string, len(p.Winners))
			for i, seat := range p.Winners {
				names[i] = SeatName(g, seat)
			}
			r.notify(fmt.Sprintf("Game complete. Lowest total %d: %s", p.GrandTotals[p.Winners[0]], strings.Join(names, ", ")))
		}
	}
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
