package domain

// Play is a single card played into a trick.
type Play struct {
	Seat Seat `json:"seat"`
	Card Card `json:"card"`
}

// Trick is one circuit of plays starting at Leader.
type Trick struct {
	Leader Seat   `json:"leader"`
	Plays  []Play `json:"plays"`
}

// NewTrick returns an empty trick led by leader.
func NewTrick(leader Seat) Trick {
	return Trick{Leader: leader, Plays: make([]Play, 0, NumSeats)}
}

// LeadSuit returns the suit of the first card played, if any.
func (t *Trick) LeadSuit() (Suit, bool) {
	if len(t.Plays) == 0 {
		return 0, false
	}
	return t.Plays[0].Card.Suit, true
}

// ToAct returns the seat whose turn it is inside the trick.
func (t *Trick) ToAct() Seat {
	return (t.Leader + Seat(len(t.Plays))) % NumSeats
}

// Complete reports whether every seat has played.
func (t *Trick) Complete() bool { return len(t.Plays) == NumSeats }

// Cards returns the played cards in play order.
func (t *Trick) Cards() []Card {
	out := make([]Card, len(t.Plays))
	for i, p := range t.Plays {
		out[i] = p.Card
	}
	return out
}

// Clone returns a copy that does not share the plays slice.
func (t Trick) Clone() Trick {
	out := Trick{Leader: t.Leader, Plays: make([]Play, len(t.Plays))}
	copy(out.Plays, t.Plays)
	return out
}

// Winner returns the seat holding the highest card of the lead suit. A trick
// resolved with anything other than four plays is a defect. If no card follows
// the lead suit the first card played wins.
func (t *Trick) Winner() (Seat, error) {
	if !t.Complete() {
		return 0, &DefectError{Op: "resolve trick", Detail: "trick holds " + itoa(len(t.Plays)) + " plays"}
	}
	lead, _ := t.LeadSuit()
	best := -1
	for i, p := range t.Plays {
		if p.Card.Suit != lead {
			continue
		}
		if best == -1 || p.Card.Rank > t.Plays[best].Card.Rank {
			best = i
		}
	}
	if best == -1 {
		best = 0
	}
	winner := t.Plays[best].Seat
	if !winner.Valid() {
		return 0, &DefectError{Op: "resolve trick", Detail: "winning play has no seat"}
	}
	return winner, nil
}

// CurrentWinner returns the best play so far without requiring a full trick.
func (t *Trick) CurrentWinner() (Play, bool) {
	lead, ok := t.LeadSuit()
	if !ok {
		return Play{}, false
	}
	best := t.Plays[0]
	for _, p := range t.Plays[1:] {
		if p.Card.Suit == lead && p.Card.Rank > best.Card.Rank {
			best = p
		}
	}
	return best, true
}
