package nakama

import (
	"fmt"

	"lora/internal/app"
	"lora/internal/domain"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var suitCodes = map[domain.Suit]string{
	domain.Spades:   "S",
	domain.Hearts:   "H",
	domain.Diamonds: "D",
	domain.Clubs:    "C",
}

func cardToWire(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"suit": suitCodes[c.Suit],
		"rank": c.Rank.String(),
	}
}

func cardsToWire(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToWire(c))
	}
	return out
}

func cardFromWire(v *structpb.Value) (domain.Card, error) {
	fields := v.GetStructValue().GetFields()
	if fields == nil {
		return domain.Card{}, fmt.Errorf("card must be an object")
	}
	return domain.ParseCard(fields["rank"].GetStringValue() + fields["suit"].GetStringValue())
}

func scoresToWire(scores [domain.NumSeats]int) []interface{} {
	out := make([]interface{}, len(scores))
	for i, s := range scores {
		out[i] = s
	}
	return out
}

func seatsToWire(seats []domain.Seat) []interface{} {
	out := make([]interface{}, len(seats))
	for i, s := range seats {
		out[i] = int(s)
	}
	return out
}

func trickToWire(t domain.Trick) map[string]interface{} {
	plays := make([]interface{}, 0, len(t.Plays))
	for _, p := range t.Plays {
		plays = append(plays, map[string]interface{}{"seat": int(p.Seat), "card": cardToWire(p.Card)})
	}
	return map[string]interface{}{"leader": int(t.Leader), "plays": plays}
}

func spansToWire(spans map[domain.Suit]domain.Span) map[string]interface{} {
	out := make(map[string]interface{}, len(spans))
	for suit, span := range spans {
		out[suitCodes[suit]] = map[string]interface{}{"low": span.Low.String(), "high": span.High.String()}
	}
	return out
}

// eventToWire maps an app event to its op code and structpb-compatible payload.
func eventToWire(ev app.Event) (int64, map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.RoundStartedPayload:
		return OpRoundStarted, map[string]interface{}{
			"kind":          string(p.Kind),
			"cycle":         p.Cycle,
			"round":         p.Round,
			"starting_seat": int(p.StartingSeat),
		}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]interface{}{
			"seat": int(p.Seat),
			"hand": cardsToWire(p.Hand),
		}, nil
	case app.TurnPayload:
		return OpTurn, map[string]interface{}{
			"seat":  int(p.Seat),
			"human": p.Human,
			"legal": cardsToWire(p.Legal),
		}, nil
	case app.CardPlayedPayload:
		return OpCardPlayed, map[string]interface{}{
			"seat":      int(p.Seat),
			"card":      cardToWire(p.Card),
			"next_seat": int(p.NextSeat),
		}, nil
	case app.TurnPassedPayload:
		return OpTurnPassed, map[string]interface{}{
			"seat":      int(p.Seat),
			"next_seat": int(p.NextSeat),
			"auto":      p.Auto,
		}, nil
	case app.TrickWonPayload:
		return OpTrickWon, map[string]interface{}{
			"winner": int(p.Winner),
			"trick":  trickToWire(p.Trick),
			"points": p.Points,
		}, nil
	case app.PlayerFinishedPayload:
		return OpPlayerFinished, map[string]interface{}{
			"seat":  int(p.Seat),
			"place": p.Place,
			"score": p.Score,
		}, nil
	case app.RoundEndedPayload:
		return OpRoundEnded, map[string]interface{}{
			"kind":         string(p.Kind),
			"scores":       scoresToWire(p.Scores),
			"grand_totals": scoresToWire(p.GrandTotals),
			"deadlock":     p.Deadlock,
			"aborted":      p.Aborted,
		}, nil
	case app.GameEndedPayload:
		return OpGameEnded, map[string]interface{}{
			"grand_totals": scoresToWire(p.GrandTotals),
			"winners":      seatsToWire(p.Winners),
		}, nil
	case nil:
		if ev.Kind == app.EventGameReset {
			return OpGameReset, map[string]interface{}{}, nil
		}
	}
	return 0, nil, fmt.Errorf("unknown event kind: %v", ev.Kind)
}

// snapshotToWire describes the whole table for a joining client.
func snapshotToWire(state *MatchState) map[string]interface{} {
	g := state.Game
	view := app.Snapshot(g)
	names := make([]interface{}, domain.NumSeats)
	for i := range names {
		names[i] = app.SeatName(g, domain.Seat(i))
	}
	out := map[string]interface{}{
		"seat":         int(state.HumanSeat),
		"names":        names,
		"cycle":        view.Cycle,
		"round":        view.Round,
		"grand_totals": scoresToWire(view.GrandTotals),
		"complete":     g.Ledger.Complete,
		"active":       g.Active(),
	}
	if !g.Active() {
		return out
	}
	sess := g.Round.Session()
	out["kind"] = string(view.Kind)
	out["to_act"] = int(view.ToAct)
	out["round_scores"] = scoresToWire(view.RoundScores)
	out["hand"] = cardsToWire(sess.Hands[state.HumanSeat])
	out["legal"] = cardsToWire(g.Round.LegalMoves(state.HumanSeat))
	sizes := make([]interface{}, domain.NumSeats)
	for i, n := range view.HandSizes {
		sizes[i] = n
	}
	out["hand_sizes"] = sizes
	if view.Trick != nil {
		out["trick"] = trickToWire(*view.Trick)
	}
	if view.Spans != nil {
		out["spans"] = spansToWire(view.Spans)
	}
	return out
}

func encodePayload(payload map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
